package models

import "time"

// FamTreePackageVersion is the only package version this server reads or
// writes. Imports of any other version are rejected before touching storage.
const FamTreePackageVersion = "1.0"

// TreeMeta is the tree header carried by export documents.
type TreeMeta struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// ForestMeta is the forest header carried by forest export documents.
type ForestMeta struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// ImagePair holds both stored variants of one photo, base64 encoded. Plain
// exports carry the pre-existing thumbnail verbatim; re-import writes both
// variants back byte for byte.
type ImagePair struct {
	Original  string `json:"original" yaml:"original"`
	Thumbnail string `json:"thumbnail" yaml:"thumbnail"`
}

// TreeExport is the plain interchange document for one tree. It is a
// transient projection: it exists only as a response body or a file, never
// in storage. The image map is keyed by stored filename.
type TreeExport struct {
	Tree          TreeMeta             `json:"tree" yaml:"tree"`
	People        []Person             `json:"people" yaml:"people"`
	Relationships []Relationship       `json:"relationships" yaml:"relationships"`
	Images        map[string]ImagePair `json:"images,omitempty" yaml:"images,omitempty"`
}

// ForestExport composes one export document per tree plus forest metadata.
// The image map is deduplicated by filename across all trees.
type ForestExport struct {
	Forest ForestMeta           `json:"forest" yaml:"forest"`
	Trees  []TreeExport         `json:"trees" yaml:"trees"`
	Images map[string]ImagePair `json:"images,omitempty" yaml:"images,omitempty"`
}

// ImageEnvelope is one image inside a .famtree package: a flat entry tied to
// exactly one person_images row, not deduplicated by filename.
type ImageEnvelope struct {
	PersonID   string     `json:"person_id"`
	IsPrimary  bool       `json:"is_primary"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
	Data       string     `json:"data"`
	Filename   string     `json:"filename"`
}

// FamTreePackage is the versioned self-contained .famtree export format:
// one tree with every image embedded.
type FamTreePackage struct {
	Version       string          `json:"version"`
	ExportedAt    time.Time       `json:"exported_at"`
	Tree          TreeMeta        `json:"tree"`
	People        []Person        `json:"people"`
	Relationships []Relationship  `json:"relationships"`
	Images        []ImageEnvelope `json:"images"`
}

// ImportCounts summarizes what an import created.
type ImportCounts struct {
	People        int `json:"people"`
	Relationships int `json:"relationships"`
	Images        int `json:"images"`
}
