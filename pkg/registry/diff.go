package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Diff lists the differences between a registry on disk and the expected one. Version and
// timestamp fields are ignored; an empty result means the document is up to date.
func Diff(current, expected *ActivityRegistry) []string {
	var changes []string

	for _, want := range expected.Activities {
		got, ok := current.Find(want.ID)
		if !ok {
			changes = append(changes, fmt.Sprintf("%s: missing", want.ID))
			continue
		}
		for _, field := range activityFieldDiff(*got, want) {
			changes = append(changes, fmt.Sprintf("%s: %s differs", want.ID, field))
		}
	}

	for _, got := range current.Activities {
		if _, ok := expected.Find(got.ID); !ok {
			changes = append(changes, fmt.Sprintf("%s: not served by any worker", got.ID))
		}
	}

	sort.Strings(changes)
	return changes
}

func activityFieldDiff(got, want Activity) []string {
	var fields []string
	if got.TaskType != want.TaskType {
		fields = append(fields, "taskType")
	}
	if got.Timeout != want.Timeout {
		fields = append(fields, "timeout")
	}
	if got.Retries != want.Retries {
		fields = append(fields, "retries")
	}
	if !sameJSON(got.ErrorCodes, want.ErrorCodes) {
		fields = append(fields, "errorCodes")
	}
	if !sameJSON(got.InputSchema, want.InputSchema) {
		fields = append(fields, "inputSchema")
	}
	if !sameJSON(got.OutputSchema, want.OutputSchema) {
		fields = append(fields, "outputSchema")
	}
	return fields
}

// sameJSON compares values by their JSON encoding, so a schema read back from disk
// (float64 numbers) equals the one built in code (ints).
func sameJSON(a, b interface{}) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}
