package catalog

// Schema DDL. Records keep their decoded form as JSON in body; the other
// columns exist for querying.
const (
	createRecords = `CREATE TABLE records (
    identifier TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    reference_id TEXT NOT NULL,
    process_type TEXT NOT NULL DEFAULT '',
    path TEXT NOT NULL,
    load_id TEXT NOT NULL,
    body TEXT NOT NULL
);`

	createTags = `CREATE TABLE tags (
    identifier TEXT NOT NULL,
    tag TEXT NOT NULL,
    PRIMARY KEY (identifier, tag),
    FOREIGN KEY (identifier) REFERENCES records(identifier) ON DELETE CASCADE
);`

	createParameters = `CREATE TABLE parameters (
    identifier TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    key TEXT NOT NULL,
    value_type TEXT NOT NULL,
    description TEXT NOT NULL,
    PRIMARY KEY (identifier, ordinal),
    FOREIGN KEY (identifier) REFERENCES records(identifier) ON DELETE CASCADE
);`
)

const (
	idxRecordsKind        = `CREATE INDEX idx_records_kind ON records(kind);`
	idxRecordsProcessType = `CREATE INDEX idx_records_process_type ON records(kind, process_type);`
	idxTagsTag            = `CREATE INDEX idx_tags_tag ON tags(tag);`
	idxParametersKey      = `CREATE INDEX idx_parameters_key ON parameters(key);`
)

var schemaDDL = []string{
	createRecords,
	createTags,
	createParameters,
}

var indexDDL = []string{
	idxRecordsKind,
	idxRecordsProcessType,
	idxTagsTag,
	idxParametersKey,
}
