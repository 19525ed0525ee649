package volumetry

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/johndauphine/db-volumetry/internal/connect"
	"github.com/johndauphine/db-volumetry/internal/fault"
)

var mysqlRequest = connect.Request{Engine: "mysql", Host: "localhost", User: "report", Password: "secret", Database: "backend"}

// newMockService returns a service whose connections all resolve to one sqlmock pool.
func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	factory := connect.NewFactoryWithOpener(func(string, string) (*sql.DB, error) {
		return db, nil
	})
	return NewService(factory), mock
}

func TestReportClosesAfterSuccess(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectPing()
	mock.ExpectQuery(tableSizesPattern).WithArgs("backend").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "size_mb"}).
			AddRow("t1", 1.50).
			AddRow("t2", 2.25))
	mock.ExpectQuery(totalPattern).WithArgs("backend").
		WillReturnRows(sqlmock.NewRows([]string{"total_size_mb"}).AddRow(nil))
	mock.ExpectClose()

	report, err := svc.Report(context.Background(), mysqlRequest)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.ID == uuid.Nil {
		t.Error("report ID should be set")
	}
	if report.Engine != "MySQL" || report.Database != "backend" || report.Target != "backend" {
		t.Errorf("report header = %s/%s/%s", report.Engine, report.Database, report.Target)
	}
	if len(report.Tables) != 2 || report.Tables[0].Name != "t1" || report.Tables[1].Name != "t2" {
		t.Errorf("tables = %v", report.Tables)
	}
	if report.TablesMB() != 3.75 {
		t.Errorf("TablesMB() = %v, want 3.75", report.TablesMB())
	}
	if report.Total.Known {
		t.Error("NULL total should be unknown")
	}
	if report.CollectedAt.IsZero() {
		t.Error("CollectedAt should be set")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("connection not closed: %v", err)
	}
}

func TestReportClosesAfterQueryFailure(t *testing.T) {
	boom := errors.New("connection reset by peer")

	tests := []struct {
		name  string
		setup func(mock sqlmock.Sqlmock)
	}{
		{"table query", func(mock sqlmock.Sqlmock) {
			mock.ExpectQuery(tableSizesPattern).WillReturnError(boom)
		}},
		{"table row", func(mock sqlmock.Sqlmock) {
			mock.ExpectQuery(tableSizesPattern).WillReturnRows(
				sqlmock.NewRows([]string{"table_name", "size_mb"}).AddRow("t1", 1.0).RowError(0, boom))
		}},
		{"total query", func(mock sqlmock.Sqlmock) {
			mock.ExpectQuery(tableSizesPattern).WillReturnRows(
				sqlmock.NewRows([]string{"table_name", "size_mb"}).AddRow("t1", 1.0))
			mock.ExpectQuery(totalPattern).WillReturnError(boom)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := newMockService(t)
			mock.ExpectPing()
			tt.setup(mock)
			mock.ExpectClose()

			report, err := svc.Report(context.Background(), mysqlRequest)
			if report != nil {
				t.Error("expected nil report")
			}
			if !fault.Is(err, fault.QueryFailure) {
				t.Fatalf("Report() error = %v, want QueryFailure", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("cause lost: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("connection not closed: %v", err)
			}
		})
	}
}

func TestReportConnectionFailure(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectPing().WillReturnError(errors.New("access denied for user 'report'"))
	mock.ExpectClose()

	_, err := svc.Report(context.Background(), mysqlRequest)
	if !fault.Is(err, fault.ConnectionFailure) {
		t.Fatalf("Report() error = %v, want ConnectionFailure", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestReportUnsupportedEngine(t *testing.T) {
	svc, _ := newMockService(t)
	req := mysqlRequest
	req.Engine = "cassandra"

	if _, err := svc.Report(context.Background(), req); !fault.Is(err, fault.UnsupportedEngine) {
		t.Fatalf("Report() error = %v, want UnsupportedEngine", err)
	}
}
