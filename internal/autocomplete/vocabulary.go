// internal/autocomplete/vocabulary.go
package autocomplete

import "slices"

// Category tags a completion candidate with the kind of thing it completes.
type Category int

const (
	CategoryKeyword Category = iota
	CategoryPragma
	CategoryPragmaFunction
	CategoryAggregateFunction
	CategoryFunction
	CategoryDataType
	CategoryTable
	CategoryNumericAlias
	CategoryTextAlias
	CategoryRealAlias
	CategoryIntegerAlias
	CategoryMetaCommand
	CategoryExecutable
	CategoryFile
	CategoryDir
)

// Label returns the display label shown next to a candidate.
func (c Category) Label() string {
	switch c {
	case CategoryKeyword:
		return "keyword"
	case CategoryPragma:
		return "pragma"
	case CategoryPragmaFunction:
		return "pragma function"
	case CategoryAggregateFunction:
		return "aggregate function"
	case CategoryFunction:
		return "function"
	case CategoryDataType:
		return "data type"
	case CategoryTable:
		return "table"
	case CategoryNumericAlias:
		return "NUMERIC (alias)"
	case CategoryTextAlias:
		return "TEXT (alias)"
	case CategoryRealAlias:
		return "REAL (alias)"
	case CategoryIntegerAlias:
		return "INTEGER (alias)"
	case CategoryMetaCommand:
		return "meta command"
	case CategoryExecutable:
		return "executable"
	case CategoryFile:
		return "file"
	case CategoryDir:
		return "dir"
	default:
		return "unknown"
	}
}

// VocabularyEntry is one static completion token.
type VocabularyEntry struct {
	Token    string
	Category Category
}

// vocabulary is built once at init and never mutated.
var vocabulary = buildVocabulary()

// Vocabulary returns the static SQL vocabulary in match order: pragmas, pragma
// functions, aggregate functions, keywords, tables, functions, data types and
// the type affinity aliases.
func Vocabulary() []VocabularyEntry {
	return slices.Clone(vocabulary)
}

func buildVocabulary() []VocabularyEntry {
	pragmaFunctions := make([]string, len(pragmas))
	for i, p := range pragmas {
		pragmaFunctions[i] = "pragma_" + p + "("
	}

	groups := []struct {
		tokens   []string
		category Category
	}{
		{pragmas, CategoryPragma},
		{pragmaFunctions, CategoryPragmaFunction},
		{aggregateFunctions, CategoryAggregateFunction},
		{keywords, CategoryKeyword},
		{tables, CategoryTable},
		{functions, CategoryFunction},
		{dataTypes, CategoryDataType},
		{numericAliases, CategoryNumericAlias},
		{textAliases, CategoryTextAlias},
		{realAliases, CategoryRealAlias},
		{integerAliases, CategoryIntegerAlias},
	}

	var entries []VocabularyEntry
	for _, g := range groups {
		for _, t := range g.tokens {
			entries = append(entries, VocabularyEntry{Token: t, Category: g.category})
		}
	}
	return dedupeEntries(entries)
}

// dedupeEntries drops repeated (token, category) pairs, keeping first occurrence.
func dedupeEntries(entries []VocabularyEntry) []VocabularyEntry {
	seen := make(map[VocabularyEntry]struct{}, len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

var keywords = []string{
	"ABORT", "ACTION", "ADD COLUMN", "ADD",
	"AFTER", "ALL", "ALTER DATABASE", "ALTER TABLE",
	"ANALYZE", "AND", "ASC", "ATTACH DATABASE",
	"AUTOINCREMENT", "BEFORE", "BEGIN DEFERRED TRANSACTION", "BEGIN EXCLUSIVE TRANSACTION",
	"BEGIN IMMEDIATE TRANSACTION", "BEGIN TRANSACTION", "BETWEEN", "BY",
	"CASCADE", "CASE", "CAST", "CHECK",
	"COLLATE", "COLUMN", "COMMIT TRANSACTION", "CONFLICT",
	"CONSTRAINT", "CREATE INDEX", "CREATE TABLE", "CREATE TEMPORARY VIEW",
	"CREATE TRIGGER", "CREATE VIEW", "CREATE VIRTUAL TABLE", "CROSS",
	"CURRENT_DATE", "CURRENT_TIME", "CURRENT_TIMESTAMP", "DATABASE",
	"DEFAULT", "DEFERRABLE", "DEFERRED", "DELETE",
	"DESC", "DETACH DATABASE", "DISTINCT", "DROP INDEX",
	"DROP TABLE", "DROP TRIGGER", "DROP VIEW", "ELSE",
	"END TRANSACTION", "ESCAPE", "EXCEPT", "EXCLUSIVE",
	"EXISTS", "EXPLAIN", "FAIL", "FOR EACH ROW",
	"FOR", "FOREIGN", "FROM", "FULL",
	"GROUP BY", "HAVING", "IF EXISTS", "IF NOT EXISTS",
	"IF", "IGNORE", "IMMEDIATE", "IN",
	"INDEX", "INDEXED BY", "INITIALLY", "INNER",
	"INSERT INTO", "INSERT OR ABORT INTO", "INSERT OR FAIL INTO", "INSERT OR IGNORE INTO",
	"INSERT OR REPLACE INTO", "INSERT OR ROLLBACK INTO", "INSTEAD OF", "INTERSECT",
	"INTO", "IS NOT", "IS", "ISNULL",
	"JOIN", "KEY", "LEFT", "LIKE",
	"LIMIT", "MATCH", "NATURAL", "NOT BETWEEN",
	"NOT EXISTS", "NOT GLOB", "NOT IN", "NOT INDEXED",
	"NOT LIKE", "NOT MATCH", "NOT NULL", "NOT REGEXP",
	"NOT", "NOTNULL", "OF", "OFFSET",
	"ON CONFLICT ABORT", "ON CONFLICT FAIL", "ON CONFLICT IGNORE", "ON CONFLICT REPLACE",
	"ON CONFLICT ROLLBACK", "ON CONFLICT", "ON", "OR",
	"ORDER BY", "OUTER", "OVER", "PLAN",
	"PRAGMA", "PRIMARY KEY", "QUERY PLAN", "QUERY",
	"RAISE", "RECURSIVE", "REFERENCES", "REGEXP",
	"REINDEX", "RELEASE SAVEPOINT", "RENAME COLUMN", "RENAME TO",
	"RENAME", "REPLACE", "RESTRICT", "RIGHT",
	"ROLLBACK TO SAVEPOINT", "ROLLBACK TRANSACTION TO SAVEPOINT", "ROLLBACK TRANSACTION", "ROW",
	"SAVEPOINT", "SELECT * FROM", "SELECT", "SET",
	"TABLE", "TEMPORARY", "THEN", "TO",
	"TRANSACTION", "TRIGGER", "UNION", "UNIQUE",
	"UPDATE OR ABORT", "UPDATE OR FAIL", "UPDATE OR IGNORE", "UPDATE OR REPLACE",
	"UPDATE OR ROLLBACK", "UPDATE", "USING", "VACUUM",
	"VALUES", "VIEW", "VIRTUAL", "WHEN",
	"WHERE", "WITH", "WITHOUT",
}

var pragmas = []string{
	"application_id", "auto_vacuum", "automatic_index",
	"busy_timeout", "cache_size", "cache_spill",
	"case_sensitive_like", "cell_size_check", "checkpoint_fullfsync",
	"collation_list", "compile_options", "data_version",
	"database_list", "encoding", "foreign_key_check",
	"foreign_key_list", "foreign_keys", "freelist_count",
	"fullfsync", "function_list", "ignore_check_constraints",
	"incremental_vacuum", "index_info", "index_list",
	"index_xinfo", "integrity_check", "journal_mode",
	"journal_size_limit", "legacy_alter_table", "legacy_file_format",
	"locking_mode", "max_page_count", "mmap_size",
	"module_list", "optimize", "page_count",
	"page_size", "parser_trace", "pragma_list",
	"query_only", "quick_check", "read_uncommitted",
	"recursive_triggers", "reverse_unordered_selects", "shrink_memory",
	"soft_heap_limit", "stats", "synchronous",
	"table_info", "temp_store", "threads",
	"user_version", "vdbe_addoptrace", "vdbe_debug",
	"vdbe_listing", "vdbe_trace", "wal_autocheckpoint",
	"wal_checkpoint", "writable_schema",
}

var aggregateFunctions = []string{
	"avg(", "count(", "group_concat(", "max(", "min(",
	"sum(",
}

var tables = []string{
	"sqlite_master", "sqlite_sequence",
}

var functions = []string{
	"abs(", "changes(", "char(", "coalesce(",
	"date(", "glob(", "hex(", "ifnull(",
	"instr(", "count(", "group_concat(", "last_insert_rowid(",
	"length(", "like(", "likelihood(", "likely(",
	"load_extension(", "lower(", "ltrim(", "max(",
	"min(", "nullif(", "printf(", "quote(",
	"random(", "julianday(", "datetime(", "randomblob(",
	"replace(", "round(", "rtrim(", "soundex(",
	"sqlite_compileoption_get(", "sqlite_compileoption_used(", "sqlite_source_id(", "sqlite_version(",
	"substr(", "strftime(", "total_changes(", "total(",
	"trim(", "typeof(", "unicode(", "unlikely(",
	"upper(", "zeroblob(",
}

var dataTypes = []string{
	"BLOB", "INTEGER", "NULL", "REAL",
	"TEXT",
}

var numericAliases = []string{
	"BOOLEAN", "DATE", "DATETIME", "DECIMAL(10,5)",
	"NUMERIC",
}

var textAliases = []string{
	"CHARACTER(20)", "CLOB", "NATIVE CHARACTER(70)", "NCHAR(255)",
	"NVARCHAR(100)", "VARCHAR(255)", "VARYING CHARACTER(255)",
}

var realAliases = []string{
	"DOUBLE PRECISION", "DOUBLE", "FLOAT",
}

var integerAliases = []string{
	"BIGINT", "INT", "INT2", "INT8",
	"MEDIUMINT", "SMALLINT", "TINYINT", "UNSIGNED BIG INT",
}
