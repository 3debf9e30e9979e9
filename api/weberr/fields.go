package weberr

import "errors"

type fielder interface {
	Fields() map[string]interface{}
}

// Fields collects the fields of every error in err's chain. Outer errors
// win on duplicate keys.
func Fields(err error) (fields map[string]interface{}, ok bool) {
	for err != nil {
		if fe, isFielder := err.(fielder); isFielder {
			if fields == nil {
				fields = make(map[string]interface{})
			}
			for k, v := range fe.Fields() {
				if _, seen := fields[k]; !seen {
					fields[k] = v
				}
			}
		}
		err = errors.Unwrap(err)
	}
	return fields, fields != nil
}

type fieldsError struct {
	error
	fields map[string]interface{}
}

func (e *fieldsError) Fields() map[string]interface{} { return e.fields }

func (e *fieldsError) Unwrap() error { return e.error }
