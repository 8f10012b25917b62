package pencatatan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzkdmln/sicakap/internal/core/apperror"
	appctx "github.com/rzkdmln/sicakap/internal/core/context"
)

type memRepo struct {
	records map[int64]*Pencatatan
	nextID  int64
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[int64]*Pencatatan), nextID: 1}
}

func (m *memRepo) Create(_ context.Context, rec *Pencatatan) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *rec
	stored.ID = id
	m.records[id] = &stored
	return id, nil
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*Pencatatan, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, apperror.NewNotFound("pencatatan", id)
	}
	return rec, nil
}

func (m *memRepo) Update(_ context.Context, rec *Pencatatan) error {
	if _, ok := m.records[rec.ID]; !ok {
		return apperror.NewNotFound("pencatatan", rec.ID)
	}
	stored := *rec
	m.records[rec.ID] = &stored
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	delete(m.records, id)
	return nil
}

func (m *memRepo) List(_ context.Context, _ Filter) ([]Pencatatan, error) {
	var out []Pencatatan
	for _, rec := range m.records {
		out = append(out, *rec)
	}
	return out, nil
}

func (m *memRepo) Stats(_ context.Context, _ string) (*Stats, error) {
	return &Stats{Total: int64(len(m.records))}, nil
}

func (m *memRepo) DateStats(_ context.Context, _ int) ([]DateStat, error) {
	return nil, nil
}

func (m *memRepo) BackfillArchivePath(_ context.Context, _ int, _, _, _ string) (int64, error) {
	return 0, nil
}

type fakeConfirmer struct {
	calls []struct {
		sessionID string
		number    int
	}
}

func (f *fakeConfirmer) Confirm(_ context.Context, sessionID string, number int) bool {
	f.calls = append(f.calls, struct {
		sessionID string
		number    int
	}{sessionID, number})
	return true
}

func sessionCtx(id string) context.Context {
	return appctx.WithSession(context.Background(), &appctx.SessionContext{SessionID: id})
}

func validRecord() *Pencatatan {
	return &Pencatatan{
		RegNumber:   601,
		RegDate:     "2024-05-01",
		ServiceCode: "SKPWNI",
		NIK:         "3374010101010001",
		Name:        "Budi Santoso",
	}
}

func TestCreate_ConfirmsReservation(t *testing.T) {
	repo := newMemRepo()
	confirmer := &fakeConfirmer{}
	svc := NewService(repo, confirmer, nil, nil)

	id, err := svc.Create(sessionCtx("sess-a"), validRecord())
	require.NoError(t, err)
	assert.NotZero(t, id)

	require.Len(t, confirmer.calls, 1)
	assert.Equal(t, "sess-a", confirmer.calls[0].sessionID)
	assert.Equal(t, 601, confirmer.calls[0].number)

	stored, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusDiproses, stored.Status)
}

func TestCreate_NoSessionSkipsConfirm(t *testing.T) {
	repo := newMemRepo()
	confirmer := &fakeConfirmer{}
	svc := NewService(repo, confirmer, nil, nil)

	_, err := svc.Create(context.Background(), validRecord())
	require.NoError(t, err)
	assert.Empty(t, confirmer.calls)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil, nil)

	tests := []struct {
		name   string
		mutate func(*Pencatatan)
	}{
		{"missing reg_number", func(r *Pencatatan) { r.RegNumber = 0 }},
		{"missing reg_date", func(r *Pencatatan) { r.RegDate = "" }},
		{"missing nik", func(r *Pencatatan) { r.NIK = "" }},
		{"missing name", func(r *Pencatatan) { r.Name = "" }},
		{"malformed date", func(r *Pencatatan) { r.RegDate = "01/05/2024" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)
			_, err := svc.Create(context.Background(), rec)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeAuditor struct {
	actions []string
}

func (f *fakeAuditor) LogChange(_ context.Context, _, _, action string, _ map[string]any) error {
	f.actions = append(f.actions, action)
	return nil
}

func TestCreate_AuditsInTransaction(t *testing.T) {
	txm := &fakeTxManager{}
	auditor := &fakeAuditor{}
	svc := NewService(newMemRepo(), nil, txm, auditor)

	id, err := svc.Create(context.Background(), validRecord())
	require.NoError(t, err)
	assert.Equal(t, 1, txm.calls)
	assert.Equal(t, []string{"create"}, auditor.actions)

	err = svc.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, txm.calls)
	assert.Equal(t, []string{"create", "delete"}, auditor.actions)
}

func TestUpdate_RequiresID(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil, nil)

	rec := validRecord()
	err := svc.Update(context.Background(), rec)
	require.Error(t, err)

	rec.ID = 99
	err = svc.Update(context.Background(), rec)
	assert.True(t, apperror.IsNotFound(err))
}

func TestList_ClampsPagination(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil, nil, nil)

	_, err := svc.List(context.Background(), Filter{Page: -3, PerPage: 5000})
	require.NoError(t, err)
}
