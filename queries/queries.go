package queries

import (
	"embed"
	"fmt"
)

//go:embed create/*.sql insert/*.sql select/*.sql
var Files embed.FS

type CreateQueries struct {
	HistoryTable string
}

type InsertQueries struct {
	HistoryEntry string
}

type SelectQueries struct {
	AllHistory    string
	HistoryById   string
	RecentHistory string
}

type QueryHelperStruct struct {
	Create CreateQueries
	Insert InsertQueries
	Select SelectQueries
}

var QueryHelper = QueryHelperStruct{
	Create: CreateQueries{
		HistoryTable: "create/history_table.sql",
	},
	Insert: InsertQueries{
		HistoryEntry: "insert/history_entry.sql",
	},
	Select: SelectQueries{
		AllHistory:    "select/all_history.sql",
		HistoryById:   "select/history_by_id.sql",
		RecentHistory: "select/recent_history.sql",
	},
}

func Get(path string) string {
	content, err := Files.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("error reading query file: %w", err))
	}

	return string(content)
}
