package models

// CodeOption is an inline {code, label} value pair attached to a code
// reference (e.g. "1:男 2:女" yields two options).
type CodeOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// CodeReference is a structured pointer, mined from a free-text comment,
// to an external code/value glossary.
type CodeReference struct {
	// Source identifies the rule family that produced the reference.
	Source string `json:"source"`
	// CodeID is the extracted glossary identifier.
	CodeID string `json:"code_id"`
	// Raw is the matched comment fragment, kept verbatim.
	Raw string `json:"raw"`
	// Options contains inline value options, if the comment carried any.
	Options []CodeOption `json:"options,omitempty"`
}

// ColumnInfo is one extracted column record. PhysicalName is required and
// is the identity key within a table; every other field is best-effort.
type ColumnInfo struct {
	// No is the sequence number from the "No" column, if present and numeric.
	No *int `json:"no,omitempty"`
	// LogicalName is the human-readable (often Japanese) column label.
	LogicalName string `json:"logical_name,omitempty"`
	// PhysicalName is the SQL-identifier-shaped column name.
	PhysicalName string `json:"physical_name"`
	// DataType is the declared type text (e.g. "VARCHAR").
	DataType string `json:"data_type,omitempty"`
	// Size is the declared length/precision text.
	Size string `json:"size,omitempty"`
	// NotNull reports whether the column is declared NOT NULL.
	NotNull bool `json:"not_null"`
	// IsPK reports whether the PK cell carried a configured marker.
	IsPK bool `json:"is_pk"`
	// AutoIncrement reports auto-increment intent detected in the comment.
	AutoIncrement bool `json:"auto_increment"`
	// Comment is the trimmed free-text comment.
	Comment string `json:"comment,omitempty"`
	// CommentRaw is the comment exactly as authored.
	CommentRaw string `json:"comment_raw,omitempty"`
	// CodeReferences holds glossary references extracted from the comment.
	CodeReferences []CodeReference `json:"code_references,omitempty"`
	// SourceRef points at the physical-name cell for write-back.
	SourceRef *CellSourceRef `json:"source_ref,omitempty"`
}
