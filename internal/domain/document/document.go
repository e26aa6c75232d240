package document

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Kind identifies which Brazilian tax document a value holds.
type Kind string

const (
	KindCPF  Kind = "cpf"
	KindCNPJ Kind = "cnpj"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindCPF, KindCNPJ:
		return true
	}
	return false
}

// Document is an immutable, already validated CPF or CNPJ. Only New and Parse build
// non-zero values, so any Document in hand has passed the checksum.
type Document struct {
	kind   Kind
	digits string
}

// New normalizes raw to its digits and validates them as the given kind.
func New(raw string, kind Kind) (Document, error) {
	digits := normalize(raw)

	var ok bool
	switch kind {
	case KindCPF:
		ok = IsValidCPF(digits)
	case KindCNPJ:
		ok = IsValidCNPJ(digits)
	}
	if !ok {
		return Document{}, &InvalidDocumentError{Raw: raw, Kind: kind}
	}

	return Document{kind: kind, digits: digits}, nil
}

// Parse picks the kind from the digit count: 11 for CPF, 14 for CNPJ.
func Parse(raw string) (Document, error) {
	switch len(normalize(raw)) {
	case cpfLength:
		return New(raw, KindCPF)
	case cnpjLength:
		return New(raw, KindCNPJ)
	}
	return Document{}, &InvalidDocumentError{Raw: raw}
}

// Digits returns the canonical digits-only form.
func (d Document) Digits() string { return d.digits }

func (d Document) Kind() Kind { return d.kind }

func (d Document) IsZero() bool { return d.digits == "" }

func (d Document) Equal(other Document) bool { return d.digits == other.digits }

// Formatted applies the conventional punctuation mask for the document kind.
func (d Document) Formatted() string {
	s := d.digits
	switch d.kind {
	case KindCPF:
		return s[:3] + "." + s[3:6] + "." + s[6:9] + "-" + s[9:]
	case KindCNPJ:
		return s[:2] + "." + s[2:5] + "." + s[5:8] + "/" + s[8:12] + "-" + s[12:]
	}
	return ""
}

func (d Document) String() string { return d.Formatted() }

// Value stores the digits-only form.
func (d Document) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.digits, nil
}

// Scan revalidates what comes out of the database so a corrupted row cannot produce
// an invalid Document.
func (d *Document) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*d = Document{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("document: cannot scan %T", src)
	}

	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Formatted())
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*d = Document{}
		return nil
	}

	parsed, err := Parse(*raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
