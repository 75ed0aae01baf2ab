package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/AnshRaj112/feedback-notes/internal/models"
)

var feedbackCols = []string{"id", "title", "content", "username"}

func TestCreateFeedback(t *testing.T) {
	_, feedback, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(insertFeedbackQuery)).
		WithArgs("t1", "c1", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	fb := models.NewFeedback("t1", "c1", "alice")
	if err := feedback.Create(context.Background(), fb); err != nil {
		t.Fatalf("create: %v", err)
	}
	if fb.ID != 7 {
		t.Fatalf("expected generated id 7, got %d", fb.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateFeedbackWithoutUser(t *testing.T) {
	_, feedback, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(insertFeedbackQuery)).
		WithArgs("t1", "c1", "ghost").
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	err := feedback.Create(context.Background(), models.NewFeedback("t1", "c1", "ghost"))
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetFeedback(t *testing.T) {
	_, feedback, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectFeedbackQuery)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(feedbackCols).AddRow(int64(7), "t1", "c1", "alice"))
	mock.ExpectQuery(regexp.QuoteMeta(selectFeedbackQuery)).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(feedbackCols))

	fb, err := feedback.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fb.ID != 7 || fb.Title != "t1" || fb.Content != "c1" || fb.Username != "alice" {
		t.Fatalf("unexpected feedback %+v", fb)
	}

	if _, err := feedback.Get(context.Background(), 8); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("expected ErrFeedbackNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateFeedbackWritesTitleAndContentOnly(t *testing.T) {
	_, feedback, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(updateFeedbackQuery)).
		WithArgs("t2", "c2", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	fb := &models.Feedback{ID: 7, Title: "t1", Content: "c1", Username: "alice"}
	fb.Apply("t2", "c2")
	if err := feedback.Update(context.Background(), fb); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateAndDeleteMissingFeedback(t *testing.T) {
	_, feedback, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(updateFeedbackQuery)).
		WithArgs("t", "c", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(deleteFeedbackQuery)).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := feedback.Update(context.Background(), &models.Feedback{ID: 99, Title: "t", Content: "c"}); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("update: expected ErrFeedbackNotFound, got %v", err)
	}
	if err := feedback.Delete(context.Background(), 99); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("delete: expected ErrFeedbackNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteFeedback(t *testing.T) {
	_, feedback, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteFeedbackQuery)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := feedback.Delete(context.Background(), 7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListByUser(t *testing.T) {
	_, feedback, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(listFeedbackQuery)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(feedbackCols).
			AddRow(int64(1), "t1", "c1", "alice").
			AddRow(int64(3), "t3", "c3", "alice"))
	mock.ExpectQuery(regexp.QuoteMeta(listFeedbackQuery)).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows(feedbackCols))

	list, err := feedback.ListByUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Title != "t1" || list[1].ID != 3 {
		t.Fatalf("unexpected list %+v", list)
	}
	for _, fb := range list {
		if fb.Username != "alice" {
			t.Fatalf("foreign row in list: %+v", fb)
		}
	}

	empty, err := feedback.ListByUser(context.Background(), "bob")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
