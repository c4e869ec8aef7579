package db

// Static builtin lists, used when a server cannot enumerate them itself.

var commonKeywords = []string{
	"SELECT", "FROM", "WHERE", "JOIN", "LEFT", "RIGHT", "INNER", "OUTER",
	"FULL", "CROSS", "ON", "AND", "OR", "NOT", "IN", "EXISTS", "BETWEEN",
	"LIKE", "IS", "NULL", "AS", "CASE", "WHEN", "THEN", "ELSE",
	"END", "INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE", "CREATE",
	"ALTER", "DROP", "TABLE", "VIEW", "INDEX", "UNIQUE", "PRIMARY", "KEY",
	"FOREIGN", "REFERENCES", "CONSTRAINT", "DEFAULT", "CHECK",
	"GROUP", "BY", "ORDER", "ASC", "DESC", "HAVING", "LIMIT",
	"OFFSET", "DISTINCT", "ALL", "UNION", "INTERSECT",
	"EXCEPT", "WITH", "RECURSIVE", "BEGIN", "COMMIT",
	"ROLLBACK", "EXPLAIN", "USING",
}

var commonFunctions = []string{
	"COUNT", "SUM", "AVG", "MIN", "MAX", "COALESCE", "NULLIF", "CAST",
	"LOWER", "UPPER", "TRIM", "LTRIM", "RTRIM", "LENGTH",
	"SUBSTR", "REPLACE", "ABS", "ROUND",
}

var mysqlKeywords = []string{
	"AUTO_INCREMENT", "ENGINE", "CHARSET", "COLLATE", "SHOW", "DESCRIBE",
	"USE", "DATABASES", "TABLES", "COLUMNS", "STATUS", "VARIABLES",
	"STRAIGHT_JOIN", "REGEXP", "UNSIGNED", "ZEROFILL",
}

var mysqlFunctions = []string{
	"CONCAT", "CONCAT_WS", "GROUP_CONCAT", "IFNULL", "IF", "NOW", "CURDATE",
	"DATE_FORMAT", "DATE_ADD", "DATE_SUB", "DATEDIFF", "STR_TO_DATE",
	"JSON_EXTRACT", "JSON_OBJECT", "JSON_ARRAYAGG", "FLOOR", "CEIL", "MOD",
	"SUBSTRING", "LOCATE", "LPAD", "RPAD", "UUID",
}

var sqliteKeywords = []string{
	"PRAGMA", "AUTOINCREMENT", "GLOB", "ATTACH", "DETACH", "REINDEX",
	"INDEXED", "WITHOUT", "ROWID", "STRICT", "VACUUM", "ANALYZE", "REPLACE",
}

var sqliteFunctions = []string{
	"IFNULL", "IIF", "INSTR", "PRINTF", "DATE", "TIME", "DATETIME", "JULIANDAY",
	"STRFTIME", "GROUP_CONCAT", "TOTAL", "TYPEOF", "JSON_EXTRACT", "RANDOM",
	"HEX", "QUOTE", "ZEROBLOB",
}

// KeywordsFor returns the common keywords plus the dialect's own.
func KeywordsFor(t DriverType) []string {
	switch t {
	case MySQL:
		return mergeNames(commonKeywords, mysqlKeywords...)
	case SQLite:
		return mergeNames(commonKeywords, sqliteKeywords...)
	default:
		return mergeNames(commonKeywords)
	}
}

// FunctionsFor returns the common functions plus the dialect's own.
func FunctionsFor(t DriverType) []string {
	switch t {
	case MySQL:
		return mergeNames(commonFunctions, mysqlFunctions...)
	case SQLite:
		return mergeNames(commonFunctions, sqliteFunctions...)
	default:
		return mergeNames(commonFunctions)
	}
}
