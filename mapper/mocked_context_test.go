package mapper_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"caster-projection/internal/sample"
	"caster-projection/mapper"
	"caster-projection/query"
)

// mockContext stands in for a database backed sample.Context.
type mockContext struct {
	mock.Mock
}

func (m *mockContext) Records(ctx context.Context) query.Queryable[sample.Record] {
	args := m.Called(ctx)

	return args.Get(0).(query.Queryable[sample.Record])
}

var _ sample.Context = (*mockContext)(nil)

func newMockedContext(t *testing.T) (*mockContext, []sample.Record) {
	t.Helper()

	records := sample.Records()

	db := new(mockContext)
	db.On("Records", mock.Anything).Return(query.FromSlice(records))
	t.Cleanup(func() { db.AssertExpectations(t) })

	return db, records
}

func newRecordConfig(t *testing.T) *mapper.Configuration {
	t.Helper()

	cfg := mapper.NewConfiguration()
	require.NoError(t, mapper.CreateMap[sample.Record, sample.RecordDTO](cfg))
	require.NoError(t, mapper.CreateMap[sample.RecordDTO, sample.Record](cfg))
	require.NoError(t, cfg.AssertValid())

	return cfg
}

func projectByEmail(t *testing.T, db sample.Context, cfg *mapper.Configuration, substr string) query.Queryable[sample.RecordDTO] {
	t.Helper()

	filtered, err := query.Where(db.Records(context.Background()), func(r sample.Record) bool {
		return strings.Contains(r.Email, substr)
	})
	require.NoError(t, err)

	projected, err := mapper.ProjectTo[sample.RecordDTO](filtered, cfg)
	require.NoError(t, err)

	return projected
}

func TestProjectTo_MockedContext(t *testing.T) {
	ctx := context.Background()
	db, records := newMockedContext(t)
	cfg := newRecordConfig(t)

	projected := projectByEmail(t, db, cfg, "example")

	list, err := query.ToList(ctx, projected)
	require.NoError(t, err)
	require.Len(t, list, 3)

	for i, dto := range list {
		assert.Equal(t, records[i].ID, dto.ID)
		assert.Equal(t, records[i].Name, dto.Name)
		assert.Equal(t, records[i].Email, dto.Email)
	}

	first, err := query.First(ctx, projected)
	require.NoError(t, err)
	assert.Equal(t, sample.RecordDTO(records[0]), first)

	// the projected query is created by a fresh asynchronous provider
	assert.IsType(t, &query.AsyncProvider{}, projected.Provider())
	assert.NotSame(t, projected.Provider(), projected.Provider())
}

func TestProjectTo_NoMatches(t *testing.T) {
	ctx := context.Background()
	db, _ := newMockedContext(t)
	cfg := newRecordConfig(t)

	projected := projectByEmail(t, db, cfg, "nowhere.invalid")

	list, err := query.ToList(ctx, projected)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = query.First(ctx, projected)
	require.ErrorIs(t, err, query.ErrNoElements)

	dto, err := query.FirstOrDefault(ctx, projected)
	require.NoError(t, err)
	assert.Zero(t, dto)
}

func TestProjectTo_Cancelled(t *testing.T) {
	db, _ := newMockedContext(t)
	cfg := newRecordConfig(t)

	projected := projectByEmail(t, db, cfg, "example")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := query.ToList(ctx, projected)
	require.ErrorIs(t, err, context.Canceled)

	_, err = query.First(ctx, projected)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMap_RoundTrip(t *testing.T) {
	cfg := newRecordConfig(t)

	for _, record := range sample.Records() {
		dto, err := mapper.Map[sample.RecordDTO](cfg, record)
		require.NoError(t, err)

		back, err := mapper.Map[sample.Record](cfg, dto)
		require.NoError(t, err)
		assert.Equal(t, record, back)
	}
}

func TestProjectTo_NotConfigured(t *testing.T) {
	cfg := mapper.NewConfiguration()

	_, err := mapper.ProjectTo[sample.RecordDTO, sample.Record](query.FromSlice(sample.Records()), cfg)
	require.ErrorIs(t, err, mapper.ErrNotConfigured)
}

func TestProjectTo_PointerElements(t *testing.T) {
	cfg := newRecordConfig(t)
	records := sample.Records()

	pointers := []*sample.Record{&records[0], nil, &records[2]}

	projected, err := mapper.ProjectTo[sample.RecordDTO, *sample.Record](query.FromSlice(pointers), cfg)
	require.NoError(t, err)

	list, err := query.ToList(context.Background(), projected)
	require.NoError(t, err)
	assert.Equal(t, []sample.RecordDTO{
		sample.RecordDTO(records[0]),
		{},
		sample.RecordDTO(records[2]),
	}, list)
}
