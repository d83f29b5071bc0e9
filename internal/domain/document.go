package domain

import "time"

// DocumentMetadata is the bookkeeping block of a tenant document.
type DocumentMetadata struct {
	CreatedAt          time.Time  `json:"createdAt"`
	LastAccess         time.Time  `json:"lastAccess"`
	TotalOperations    int        `json:"totalOperations"`
	ResetAt            *time.Time `json:"resetAt,omitempty"`
	PreviousOperations *int       `json:"previousOperations,omitempty"`
}

// TenantDocument is the aggregate persisted for one tenant: the optional user
// record, the ordered book collection, and metadata counters.
// Slice order of Books is the canonical insertion order.
type TenantDocument struct {
	User     *User            `json:"user"`
	Books    []Book           `json:"books"`
	Metadata DocumentMetadata `json:"metadata"`
}

// NewTenantDocument returns the empty document materialized on first access.
func NewTenantDocument(now time.Time) *TenantDocument {
	return &TenantDocument{
		User:  nil,
		Books: []Book{},
		Metadata: DocumentMetadata{
			CreatedAt:       now,
			LastAccess:      now,
			TotalOperations: 0,
		},
	}
}

// IndexOf returns the position of the book with the given id, or -1.
func (d *TenantDocument) IndexOf(bookID string) int {
	for i := range d.Books {
		if d.Books[i].ID == bookID {
			return i
		}
	}
	return -1
}

// HasBookID reports whether a book with the given id exists.
func (d *TenantDocument) HasBookID(bookID string) bool {
	return d.IndexOf(bookID) >= 0
}

// Clone returns a deep copy of the document.
func (d *TenantDocument) Clone() *TenantDocument {
	out := &TenantDocument{
		Books:    make([]Book, len(d.Books)),
		Metadata: d.Metadata,
	}
	if d.User != nil {
		u := *d.User
		out.User = &u
	}
	for i := range d.Books {
		out.Books[i] = d.Books[i].clone()
	}
	out.Metadata.ResetAt = clonePtr(d.Metadata.ResetAt)
	out.Metadata.PreviousOperations = clonePtr(d.Metadata.PreviousOperations)
	return out
}

// ResetResult reports what a reset removed.
type ResetResult struct {
	DeletedBooks       int `json:"deletedBooks"`
	PreviousOperations int `json:"previousOperations"`
}

// Reset clears the collection and counter while keeping the user record and
// creation time. The pre-reset counter is kept for audit.
func (d *TenantDocument) Reset(now time.Time) ResetResult {
	result := ResetResult{
		DeletedBooks:       len(d.Books),
		PreviousOperations: d.Metadata.TotalOperations,
	}

	prev := d.Metadata.TotalOperations
	d.Books = []Book{}
	d.Metadata.TotalOperations = 0
	d.Metadata.ResetAt = &now
	d.Metadata.PreviousOperations = &prev
	d.Metadata.LastAccess = now

	return result
}
