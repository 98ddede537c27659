package errors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_NilError(t *testing.T) {
	if err := MapDBError(nil); err != nil {
		t.Errorf("MapDBError(nil) = %v, want nil", err)
	}
}

func TestMapDBError_ContextErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{name: "deadline exceeded", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, wantCode: ErrCodeCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(MapDBError(tt.err)); got != tt.wantCode {
				t.Errorf("MapDBError() code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	if !IsNotFound(err) {
		t.Errorf("MapDBError(pgx.ErrNoRows) should be NotFound, got %v", GetCode(err))
	}
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
	}{
		{
			name: "column name",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "recruiters_email_key",
				ColumnName:     "email",
			},
			wantField: "email",
		},
		{
			name: "detail message",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.UniqueViolation,
				Detail: `Key (bucket, key)=(resumes, j1/r.pdf) already exists.`,
			},
			wantField: "bucket, key",
		},
		{
			name: "constraint name only",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "recruiters_email_key",
			},
			wantField: "email",
		},
		{
			name: "ambiguous constraint",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "resume_objects_bucket_key_pkey",
			},
			wantField: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			if !IsConflict(err) {
				t.Errorf("MapDBError() should be Conflict, got %v", GetCode(err))
			}
			if field := GetField(err); field != tt.wantField {
				t.Errorf("MapDBError() field = %v, want %v", field, tt.wantField)
			}
			var pgErr *pgconn.PgError
			if !errors.As(err, &pgErr) {
				t.Errorf("mapped error should unwrap to *pgconn.PgError")
			}
		})
	}
}

func TestMapDBError_ForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name         string
		pgErr        *pgconn.PgError
		wantContains string
	}{
		{
			name: "missing parent",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (job_id)=(abc) is not present in table "jobs".`,
			},
			wantContains: "referenced Job does not exist",
		},
		{
			name: "parent still referenced",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (id)=(abc) is still referenced from table "applications".`,
			},
			wantContains: "in use by Application",
		},
		{
			name: "table name fallback",
			pgErr: &pgconn.PgError{
				Code:      pgerrcode.ForeignKeyViolation,
				TableName: "applications",
			},
			wantContains: "Application",
		},
		{
			name: "constraint fallback",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.ForeignKeyViolation,
				ConstraintName: "applications_job_id_fkey",
			},
			wantContains: "job does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			if !IsForeignKey(err) {
				t.Fatalf("MapDBError() should be ForeignKey, got %v", GetCode(err))
			}
			if msg := UserMessage(err); !strings.Contains(msg, tt.wantContains) {
				t.Errorf("message = %q, want to contain %q", msg, tt.wantContains)
			}
		})
	}
}

func TestMapDBError_NotNullAndCheck(t *testing.T) {
	notNull := MapDBError(&pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "title"})
	if !IsValidation(notNull) || GetField(notNull) != "title" {
		t.Errorf("not-null violation = %v (field %q)", GetCode(notNull), GetField(notNull))
	}

	check := MapDBError(&pgconn.PgError{Code: pgerrcode.CheckViolation})
	if !IsValidation(check) || GetField(check) != "" {
		t.Errorf("check violation = %v (field %q)", GetCode(check), GetField(check))
	}
}

func TestMapDBError_UnknownPgError(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.DeadlockDetected, Message: "deadlock detected"})
	if !IsRemote(err) {
		t.Errorf("unknown pg error should be Remote, got %v", GetCode(err))
	}
	if UserMessage(err) != "deadlock detected" {
		t.Errorf("unknown pg error should keep server message, got %q", UserMessage(err))
	}
}

func TestMapDBError_StandardError(t *testing.T) {
	stdErr := errors.New("standard error")
	if err := MapDBError(stdErr); !errors.Is(err, stdErr) {
		t.Errorf("MapDBError() should return original error for non-db errors, got %v", err)
	}
}

func TestMapSQLFault_PostgRESTShape(t *testing.T) {
	err := MapSQLFault(SQLFault{
		Code:    pgerrcode.InsufficientPrivilege,
		Message: `new row violates row-level security policy for table "jobs"`,
	})
	if !IsForbidden(err) {
		t.Errorf("RLS violation should be Forbidden, got %v", GetCode(err))
	}
	if msg := UserMessage(err); msg != `new row violates row-level security policy for table "jobs"` {
		t.Errorf("remote message should be kept verbatim, got %q", msg)
	}

	err = MapSQLFault(SQLFault{Code: pgerrcode.InvalidTextRepresentation, Message: "invalid input syntax for type uuid"})
	if !IsValidation(err) {
		t.Errorf("invalid text representation should be Validation, got %v", GetCode(err))
	}
	if msg := UserMessage(err); msg != "invalid input syntax for type uuid" {
		t.Errorf("remote message should be kept verbatim, got %q", msg)
	}

	err = MapSQLFault(SQLFault{
		Code:   pgerrcode.ForeignKeyViolation,
		Detail: `Key (job_id)=(abc) is not present in table "jobs".`,
	})
	if !IsForeignKey(err) {
		t.Errorf("FK violation should be ForeignKey, got %v", GetCode(err))
	}
	if msg := UserMessage(err); !strings.Contains(msg, "referenced Job does not exist") {
		t.Errorf("fault without a message should fall back to local wording, got %q", msg)
	}
}

func TestInferFieldFromConstraint(t *testing.T) {
	tests := []struct {
		constraintName string
		want           string
	}{
		{constraintName: "recruiters_email_key", want: "email"},
		{constraintName: "jobs_title_unique", want: "title"},
		{constraintName: "table_field1_field2_key", want: ""},
		{constraintName: "recruiters_lower_key", want: ""},
		{constraintName: "", want: ""},
		{constraintName: "table_key", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.constraintName, func(t *testing.T) {
			if got := inferFieldFromConstraint(tt.constraintName); got != tt.want {
				t.Errorf("inferFieldFromConstraint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapTableToDomain(t *testing.T) {
	tests := []struct {
		tableName string
		want      string
	}{
		{tableName: "jobs", want: "Job"},
		{tableName: "applications", want: "Application"},
		{tableName: "  RECRUITERS ", want: "Recruiter"},
		{tableName: "resume_objects", want: "Resume"},
		{tableName: "unknown_table", want: "Unknown Table"},
	}

	for _, tt := range tests {
		t.Run(tt.tableName, func(t *testing.T) {
			if got := mapTableToDomain(tt.tableName); got != tt.want {
				t.Errorf("mapTableToDomain() = %v, want %v", got, tt.want)
			}
		})
	}
}
