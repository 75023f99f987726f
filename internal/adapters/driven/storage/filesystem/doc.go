// Package filesystem implements the storage ports on a plain directory tree.
//
// Layout under the storage root:
//
//	index.json                 the document index ({"documents": [...]})
//	index.json.corrupt-<ts>    an unparseable index set aside before rewriting
//	_Manual_Review/            copies of files that failed processing
//	<PERSON_ID>/               one folder per person
//	    .person_metadata.json  name, docNumbers, dob, created
//	    <file>                 the filed copy
//	    <file>.json            per-file sidecar
//
// Entries starting with '_' or '.' are never treated as person folders.
package filesystem

// Layout names.
const (
	IndexFileName      = "index.json"
	ReviewDirName      = "_Manual_Review"
	PersonMetadataFile = ".person_metadata.json"
	SidecarExt         = ".json"
	CorruptIndexSuffix = ".corrupt-"
)
