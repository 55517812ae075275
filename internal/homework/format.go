package homework

import "fmt"

const (
	FieldName   = "homework_name"
	FieldStatus = "status"
)

// Record is one homework item as returned by the status API.
type Record struct {
	Name   string
	Status string
}

// ParseRecord extracts a Record from one decoded "homeworks" entry.
func ParseRecord(entry any) (Record, error) {
	obj, ok := entry.(map[string]any)
	if !ok {
		return Record{}, &ShapeError{Reason: fmt.Sprintf("homework entry is %s, want object", kindOf(entry))}
	}
	name, err := stringField(obj, FieldName)
	if err != nil {
		return Record{}, err
	}
	status, err := stringField(obj, FieldStatus)
	if err != nil {
		return Record{}, err
	}
	return Record{Name: name, Status: status}, nil
}

// Format renders the chat message for one homework entry.
func Format(entry any) (string, error) {
	rec, err := ParseRecord(entry)
	if err != nil {
		return "", err
	}
	return rec.Message()
}

// Message renders the chat message for r.
func (r Record) Message() (string, error) {
	verdict, ok := Verdict(r.Status)
	if !ok {
		return "", &UnknownVerdictError{Status: r.Status}
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", r.Name, verdict), nil
}

func stringField(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", &MissingFieldError{Field: key}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ShapeError{Reason: fmt.Sprintf("%q is %s, want string", key, kindOf(v))}
	}
	if s == "" {
		return "", &MissingFieldError{Field: key}
	}
	return s, nil
}
