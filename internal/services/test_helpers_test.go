package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"mcainsights/internal/dataset"
)

// MockSnapshotSource is a mock for the SnapshotSource interface
type MockSnapshotSource struct {
	mock.Mock
}

func (m *MockSnapshotSource) Get(ctx context.Context) (*dataset.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dataset.Snapshot), args.Error(1)
}

// MockLoadState is a mock for the LoadState interface
type MockLoadState struct {
	mock.Mock
}

func (m *MockLoadState) Loaded() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testSnapshot has three companies (two in MH), a change log for U1 and
// enriched rows for U1.
func testSnapshot() *dataset.Snapshot {
	master := dataset.NewTable(dataset.NameMaster,
		[]string{"cin", "company_name", "state_code", "status"},
		[][]string{
			{"U1", "Alpha Ltd", "MH", "Active"},
			{"U2", "Beta Pvt", "KA", "Struck Off"},
			{"U3", "Gamma Alpha", "MH", "Active"},
		})
	changeLog := dataset.NewTable(dataset.NameChangeLog,
		[]string{"cin", "change_type", "date"},
		[][]string{
			{"U1", "Update", "2024-01-01"},
			{"U1", "Address Change", "2024-03-05"},
			{"U2", "Update", "2023-07-01"},
		})
	enriched := dataset.NewTable(dataset.NameEnriched,
		[]string{"cin", "field", "value"},
		[][]string{
			{"U1", "director_name", "Asha Rao"},
			{"U1", "Registered_Address", "Mumbai"},
		})
	return dataset.NewSnapshot(master, changeLog, enriched, "2-Jan-2006", nil)
}

func newStaticSource(snap *dataset.Snapshot, err error) *MockSnapshotSource {
	src := new(MockSnapshotSource)
	src.On("Get", mock.Anything).Return(snap, err)
	return src
}
