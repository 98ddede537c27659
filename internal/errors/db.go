package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Regular expressions for parsing Postgres detail messages.
var (
	// reKeyField extracts field name from unique violation detail: "Key (field)=(value) already exists.".
	reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// reReferencedFrom detects parent deletion: "... is still referenced from table ...".
	reReferencedFrom = regexp.MustCompile(`is still referenced from table "?([^"]+)"?`)
	// reNotPresent detects missing parent: "... is not present in table ...".
	reNotPresent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
)

// SQLFault is the subset of a Postgres error report shared by pgconn.PgError
// and PostgREST error bodies ({code, message, details, hint}).
type SQLFault struct {
	Code       string
	Message    string
	Detail     string
	Column     string
	Constraint string
	Table      string
	Cause      error
}

// MapDBError maps database errors to AppError instances.
// It handles common database error patterns including:
// - pgx.ErrNoRows → NotFound
// - Unique constraint violations → Conflict
// - Foreign key violations → ForeignKey
// - Check constraint violations → Validation
// - NOT NULL violations → Validation
// - Context timeouts/cancellations → Timeout/Canceled
//
// If the error is not a recognized database error, it returns the original error.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: "Resource not found",
			Cause:   err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifySQLFault(SQLFault{
			Code:       pgErr.Code,
			Message:    pgErr.Message,
			Detail:     pgErr.Detail,
			Column:     pgErr.ColumnName,
			Constraint: pgErr.ConstraintName,
			Table:      pgErr.TableName,
			Cause:      pgErr,
		})
	}

	return err
}

// MapSQLFault maps a fault reported by a remote service to an AppError. The
// code is classified like a local database error, but the user sees the
// server's own message whenever it sent one.
func MapSQLFault(f SQLFault) error {
	appErr := classifySQLFault(f)
	if f.Message != "" {
		appErr.Message = f.Message
	}
	return appErr
}

// classifySQLFault maps a SQLSTATE-coded fault to an AppError with wording
// suited to errors raised by our own database.
func classifySQLFault(f SQLFault) *AppError {
	switch f.Code {
	case pgerrcode.UniqueViolation:
		return mapUniqueViolation(f)
	case pgerrcode.ForeignKeyViolation:
		return mapForeignKeyViolation(f)
	case pgerrcode.CheckViolation, pgerrcode.InvalidTextRepresentation:
		return fieldValidation(f, "This field has an invalid value.", "Invalid data. Please check your input.")
	case pgerrcode.NotNullViolation:
		return fieldValidation(f, "This field is required.", "Required field is missing. Please check your input.")
	case pgerrcode.InsufficientPrivilege:
		return &AppError{Code: ErrCodeForbidden, Message: "You do not have access to this resource.", Cause: f.Cause}
	default:
		msg := f.Message
		if msg == "" {
			msg = "A database error occurred. Please try again."
		}
		return &AppError{Code: ErrCodeRemote, Message: msg, Cause: f.Cause}
	}
}

func mapUniqueViolation(f SQLFault) *AppError {
	field := f.Column
	if field == "" && f.Detail != "" {
		if m := reKeyField.FindStringSubmatch(f.Detail); len(m) == 2 {
			field = m[1]
		}
	}
	if field == "" {
		field = inferFieldFromConstraint(f.Constraint)
	}

	return &AppError{
		Code:    ErrCodeConflict,
		Message: "This value already exists. Please choose a different one.",
		Field:   field,
		Cause:   f.Cause,
	}
}

func mapForeignKeyViolation(f SQLFault) *AppError {
	var message string

	if f.Detail != "" {
		if m := reReferencedFrom.FindStringSubmatch(f.Detail); len(m) == 2 {
			message = "Cannot delete because this item is in use by " + mapTableToDomain(m[1]) + "."
		} else if m := reNotPresent.FindStringSubmatch(f.Detail); len(m) == 2 {
			message = "Cannot complete operation because the referenced " + mapTableToDomain(m[1]) + " does not exist."
		}
	}
	if message == "" && f.Table != "" {
		message = "Cannot complete operation because this item is in use by " + mapTableToDomain(f.Table) + "."
	}
	if message == "" {
		message = inferForeignKeyMessage(f.Constraint)
	}

	return &AppError{
		Code:    ErrCodeForeignKey,
		Message: message,
		Cause:   f.Cause,
	}
}

func fieldValidation(f SQLFault, fieldMsg, genericMsg string) *AppError {
	if f.Column != "" {
		return &AppError{Code: ErrCodeValidation, Message: fieldMsg, Field: f.Column, Cause: f.Cause}
	}
	return &AppError{Code: ErrCodeValidation, Message: genericMsg, Cause: f.Cause}
}

// inferFieldFromConstraint attempts to infer the field name from a constraint name.
// e.g., "recruiters_email_key" → "email"
// Returns empty string if inference fails or is ambiguous.
func inferFieldFromConstraint(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	parts := strings.Split(constraintName, "_")
	// Multi-column or expression constraints have more parts; skip them.
	if len(parts) != 3 {
		return ""
	}
	if isFunctionName(parts[1]) {
		return ""
	}
	return parts[1]
}

func isFunctionName(s string) bool {
	switch strings.ToLower(s) {
	case "lower", "upper", "trim", "coalesce", "md5":
		return true
	default:
		return false
	}
}

// mapTableToDomain maps internal table names to user-friendly domain names.
func mapTableToDomain(tableName string) string {
	tableName = strings.ToLower(strings.TrimSpace(tableName))

	domainMap := map[string]string{
		"jobs":           "Job",
		"applications":   "Application",
		"recruiters":     "Recruiter",
		"resume_objects": "Resume",
	}
	if domainName, ok := domainMap[tableName]; ok {
		return domainName
	}

	return capitalizeFirst(strings.ReplaceAll(tableName, "_", " "))
}

// capitalizeFirst capitalizes the first letter of each word in a string.
func capitalizeFirst(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if word[0] >= 'a' && word[0] <= 'z' {
			words[i] = string(word[0]-32) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// inferForeignKeyMessage infers a user-friendly message from a foreign key constraint name.
func inferForeignKeyMessage(constraintName string) string {
	constraintName = strings.ToLower(constraintName)
	switch {
	case strings.Contains(constraintName, "job"):
		return "Cannot complete operation because the job does not exist."
	case strings.Contains(constraintName, "recruiter"):
		return "Cannot complete operation because the recruiter does not exist."
	default:
		return "Cannot complete operation due to a related record."
	}
}
