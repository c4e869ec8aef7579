package icons

import "github.com/nhath/ezcomplete/internal/autocomplete"

const (
	// Database Icons (Nerd Font)
	IconPostgres = ""
	IconMySQL    = ""
	IconSQLite   = "\U000f01bc"
	IconGeneric  = "\U000f01bc"

	// Candidate kinds
	IconKeyword  = "K"
	IconFunction = "ƒ"
	IconDatabase = "D"
	IconTable    = "T"
	IconColumn   = "C"
	IconSnippet  = "S"

	IconSelect = "▸"
	IconBullet = "•"
)

func GetDatabaseIcon(dbType string) string {
	switch dbType {
	case "postgres", "postgresql":
		return IconPostgres
	case "mysql":
		return IconMySQL
	case "sqlite":
		return IconSQLite
	default:
		return IconGeneric
	}
}

// ForKind returns the type indicator shown next to a candidate.
func ForKind(k autocomplete.Kind) string {
	switch k {
	case autocomplete.KindKeyword:
		return IconKeyword
	case autocomplete.KindFunction:
		return IconFunction
	case autocomplete.KindDatabase:
		return IconDatabase
	case autocomplete.KindTable:
		return IconTable
	case autocomplete.KindColumn:
		return IconColumn
	case autocomplete.KindSnippet:
		return IconSnippet
	default:
		return IconBullet
	}
}
