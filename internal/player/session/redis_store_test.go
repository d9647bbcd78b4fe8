package session

import (
	"context"
	"testing"
	"time"

	assessments "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func testRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStoreWithClient(client, ttl), mr
}

func TestRedisRoundTrip(t *testing.T) {
	store, _ := testRedisStore(t, time.Hour)
	ctx := context.Background()

	tr := domain.NewTraversal(uuid.New(), "website")
	if err := tr.Start(domain.Contact{Name: "Jamie", Email: "jamie@example.com"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := store.Save(ctx, tr); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx, tr.SessionID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Phase != domain.PhaseInProgress {
		t.Fatalf("expected in-progress phase after round trip, got %s", loaded.Phase)
	}
	if loaded.Contact.Email != "jamie@example.com" {
		t.Fatalf("contact lost in round trip: %+v", loaded.Contact)
	}
	if loaded.AssessmentID != tr.AssessmentID {
		t.Fatalf("assessment id changed: %s != %s", loaded.AssessmentID, tr.AssessmentID)
	}
}

func TestRedisAnswersSurviveRoundTrip(t *testing.T) {
	store, _ := testRedisStore(t, time.Hour)
	ctx := context.Background()

	questions := []assessments.Question{
		{ID: 1, Type: assessments.QuestionTypeYesNo, Question: "Ready?"},
		{ID: 2, Type: assessments.QuestionTypeDesires, Question: "Goals?", Options: []string{"growth", "freedom", "income"}},
	}

	tr := domain.NewTraversal(uuid.New(), "website")
	if err := tr.Start(domain.Contact{Name: "Jamie", Email: "jamie@example.com"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := tr.RecordAnswer(questions, 1, "yes"); err != nil {
		t.Fatalf("answer rejected: %v", err)
	}
	if err := tr.RecordAnswer(questions, 2, []string{"freedom", "growth"}); err != nil {
		t.Fatalf("answer rejected: %v", err)
	}
	if err := store.Save(ctx, tr); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx, tr.SessionID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Progress(questions) != tr.Progress(questions) {
		t.Fatalf("progress changed in round trip: %d != %d", loaded.Progress(questions), tr.Progress(questions))
	}
	multi, ok := loaded.Answers[2]
	if !ok || len(multi.Values) != 2 {
		t.Fatalf("multi-select answer lost in round trip: %+v", multi)
	}
}

func TestRedisExpiredSessionIsGone(t *testing.T) {
	store, mr := testRedisStore(t, time.Minute)
	ctx := context.Background()

	tr := domain.NewTraversal(uuid.New(), "qr")
	if err := store.Save(ctx, tr); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, tr.SessionID)
	if !apperr.Is(err, apperr.KindGone) {
		t.Fatalf("expected gone error for expired session, got %v", err)
	}
}

func TestRedisUnknownSessionIsGone(t *testing.T) {
	store, _ := testRedisStore(t, time.Minute)

	_, err := store.Load(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindGone) {
		t.Fatalf("expected gone error for unknown session, got %v", err)
	}
}

func TestRedisDeleteIsIdempotent(t *testing.T) {
	store, _ := testRedisStore(t, time.Minute)
	ctx := context.Background()

	tr := domain.NewTraversal(uuid.New(), "email")
	if err := store.Save(ctx, tr); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Delete(ctx, tr.SessionID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete(ctx, tr.SessionID); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if _, err := store.Load(ctx, tr.SessionID); !apperr.Is(err, apperr.KindGone) {
		t.Fatalf("expected gone after delete, got %v", err)
	}
}

func TestRedisSaveRefreshesTTL(t *testing.T) {
	store, mr := testRedisStore(t, time.Minute)
	ctx := context.Background()

	tr := domain.NewTraversal(uuid.New(), "website")
	if err := store.Save(ctx, tr); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	mr.FastForward(45 * time.Second)
	if err := store.Save(ctx, tr); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}
	mr.FastForward(45 * time.Second)

	if _, err := store.Load(ctx, tr.SessionID); err != nil {
		t.Fatalf("expected session alive after TTL refresh, got %v", err)
	}
}
