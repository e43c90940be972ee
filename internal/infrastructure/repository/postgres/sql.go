package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// External ids are stored as a jsonb object mapping source to identifier.
func marshalExternalIDs(ids map[string]string) ([]byte, error) {
	if len(ids) == 0 {
		return []byte("{}"), nil
	}
	data, err := sonic.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("marshal external ids: %w", err)
	}
	return data, nil
}

func unmarshalExternalIDs(data []byte) (map[string]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	out := make(map[string]string)
	if err := sonic.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal external ids: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func marshalIntSlice(values []int) ([]byte, error) {
	if len(values) == 0 {
		return []byte("[]"), nil
	}
	data, err := sonic.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("marshal int slice: %w", err)
	}
	return data, nil
}

func unmarshalIntSlice(data []byte) ([]int, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var out []int
	if err := sonic.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal int slice: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func intPtrToNullInt64(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func nullInt64ToIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	out := int(value.Int64)
	return &out
}

func timePtrToNullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}

func nullTimeToTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	out := value.Time
	return &out
}

func strPtrToNullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullStringToStrPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	out := value.String
	return &out
}

func boolPtrToNullBool(value *bool) sql.NullBool {
	if value == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *value, Valid: true}
}

func nullBoolToBoolPtr(value sql.NullBool) *bool {
	if !value.Valid {
		return nil
	}
	out := value.Bool
	return &out
}

func floatPtrToNullFloat64(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func nullFloat64ToFloatPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	out := value.Float64
	return &out
}
