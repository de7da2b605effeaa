package store

import "reflect"

// resetValue zeroes whatever dest points to. json.Unmarshal may have filled
// part of it before failing.
func resetValue(dest interface{}) {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return
	}
	v.Elem().Set(reflect.Zero(v.Elem().Type()))
}
