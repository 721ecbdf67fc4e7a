package rp

import (
	"encoding/json"
	"fmt"
	"time"
)

// maxMillisTimestamp is the upper bound for a value to be interpreted as
// milliseconds (approximately year 2286). Values at or above this threshold
// are treated as microseconds.
const maxMillisTimestamp int64 = 1e13

// EpochMillis represents a point in time serialized as an integer epoch
// timestamp. On deserialization it auto-detects whether the value is
// milliseconds or microseconds based on its magnitude. Serialization always
// produces milliseconds.
type EpochMillis time.Time

// Time returns the underlying time.Time value.
func (e EpochMillis) Time() time.Time { return time.Time(e) }

// MarshalJSON serializes EpochMillis as Unix milliseconds.
func (e EpochMillis) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(e).UnixMilli())
}

// UnmarshalJSON deserializes an integer timestamp, auto-detecting ms or us.
func (e *EpochMillis) UnmarshalJSON(data []byte) error {
	var value int64
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("unmarshal epoch millis: %w", err)
	}
	if value >= maxMillisTimestamp {
		*e = EpochMillis(time.UnixMicro(value))
	} else {
		*e = EpochMillis(time.UnixMilli(value))
	}
	return nil
}

// --- RP response types (hand-written, aligned with RP 5.11 OpenAPI spec) ---

// LaunchResource represents a Report Portal launch.
type LaunchResource struct {
	ID         int                     `json:"id"`
	UUID       string                  `json:"uuid,omitempty"`
	Name       string                  `json:"name,omitempty"`
	Number     int                     `json:"number,omitempty"`
	Status     string                  `json:"status,omitempty"`
	StartTime  *EpochMillis            `json:"startTime,omitempty"`
	EndTime    *EpochMillis            `json:"endTime,omitempty"`
	Owner      string                  `json:"owner,omitempty"`
	Attributes []ItemAttributeResource `json:"attributes,omitempty"`
	Statistics *StatisticsResource     `json:"statistics,omitempty"`
}

// TestItemResource represents a Report Portal test item (step/test/suite).
type TestItemResource struct {
	ID          int                     `json:"id"`
	UUID        string                  `json:"uuid,omitempty"`
	Name        string                  `json:"name,omitempty"`
	Type        string                  `json:"type,omitempty"`
	Status      string                  `json:"status,omitempty"`
	LaunchID    int                     `json:"launchId,omitempty"`
	Description string                  `json:"description,omitempty"`
	StartTime   *EpochMillis            `json:"startTime,omitempty"`
	EndTime     *EpochMillis            `json:"endTime,omitempty"`
	Attributes  []ItemAttributeResource `json:"attributes,omitempty"`
	HasChildren bool                    `json:"hasChildren,omitempty"`
	HasStats    bool                    `json:"hasStats,omitempty"`
}

// Duration returns the item's elapsed time in milliseconds, or 0 when
// either timestamp is missing or the difference is negative.
func (t *TestItemResource) Duration() int64 {
	if t.StartTime == nil || t.EndTime == nil {
		return 0
	}
	d := t.EndTime.Time().UnixMilli() - t.StartTime.Time().UnixMilli()
	if d < 0 {
		return 0
	}
	return d
}

// ItemAttributeResource represents a key-value attribute on a launch/item.
type ItemAttributeResource struct {
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
	System bool   `json:"system,omitempty"`
}

// StatisticsResource holds execution and defect statistics.
type StatisticsResource struct {
	Defects    map[string]map[string]int `json:"defects,omitempty"`
	Executions map[string]int            `json:"executions,omitempty"`
}

// Execution count keys within StatisticsResource.Executions.
const (
	ExecTotal   = "total"
	ExecPassed  = "passed"
	ExecFailed  = "failed"
	ExecSkipped = "skipped"
)

// --- Paginated response wrappers ---

// PagedLaunches is the paginated response for launch listing.
type PagedLaunches struct {
	Content []LaunchResource `json:"content"`
	Page    PageInfo         `json:"page"`
}

// PagedItems is the paginated response for item listing.
type PagedItems struct {
	Content []TestItemResource `json:"content"`
	Page    PageInfo           `json:"page"`
}

// PageInfo holds pagination metadata.
type PageInfo struct {
	Number        int `json:"number"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// ErrorRS is the standard RP error response shape.
type ErrorRS struct {
	ErrorCode int    `json:"errorCode"`
	Message   string `json:"message"`
}
