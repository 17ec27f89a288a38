package docstore

import "encoding/json"

// DataTo decodes the document fields into a typed view record. Dates pass
// through the flexible decoder on the target struct's fields, so malformed
// values degrade to sentinels instead of failing the whole document.
func (d Document) DataTo(v any) error {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// ToData flattens a typed record into store fields. The record's own "id"
// field is dropped: the ID lives on the document reference, not in it.
func ToData(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	delete(data, "id")
	return data, nil
}
