package store

// DatabaseName is the fixed file name of the task database inside the
// storage directory.
const DatabaseName = "TasksDB"

// pragmas run on every fresh connection before the schema.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
}

// schema creates the tasks table when missing. There is no versioning:
// the column set is fixed.
const schema = `
CREATE TABLE IF NOT EXISTS Tasks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT,
	description TEXT,
	textColour  TEXT,
	backColour  TEXT,
	dateTime    TEXT,
	imageUri    TEXT
);
`

const taskColumns = "id, name, description, textColour, backColour, dateTime, imageUri"
