package vector

import (
	"fmt"
	"strings"
)

const (
	// DefaultSamplesTable holds the labeled samples of every dataset.
	DefaultSamplesTable = "samples"

	// DefaultIndexTable holds one persisted tree per dataset.
	DefaultIndexTable = "kd_index"
)

// InvalidationTriggers returns the trigger DDL statements that drop a
// dataset's persisted index whenever one of its samples is inserted, updated
// or deleted, so writes that bypass the Store still force a rebuild.
func InvalidationTriggers(samplesTable, indexTable string) []string {
	if samplesTable == "" {
		samplesTable = DefaultSamplesTable
	}
	if indexTable == "" {
		indexTable = DefaultIndexTable
	}
	base := sanitizeIdentifier(samplesTable)
	trigger := func(suffix, event, alias string) string {
		return fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %s_%s AFTER %s ON %s
BEGIN
    DELETE FROM %s WHERE dataset_id = %s.dataset_id;
END;`, base, suffix, event, samplesTable, indexTable, alias)
	}
	return []string{
		trigger("ai", "INSERT", "NEW"),
		trigger("au", "UPDATE", "NEW"),
		trigger("ad", "DELETE", "OLD"),
	}
}

func sanitizeIdentifier(name string) string {
	if name == "" {
		return ""
	}
	replacer := strings.NewReplacer(".", "_", "-", "_")
	return replacer.Replace(name)
}
