package payload

import (
	"bytes"
	"encoding/json"
)

/* Body Collector decode step. Webhook senders push arbitrary bytes;
 * a body that is not valid JSON is an expected case, never an error.
 */

// RawKey is the field name wrapping an undecodable body.
const RawKey = "raw"

/* Decode turns a fully collected request body into the value stored
 * on the record:
 *   - valid JSON text decodes to its structured value
 *   - an empty body decodes to an empty object
 *   - anything else is preserved verbatim as {"raw": <text>}
 */
func Decode(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return map[string]any{RawKey: string(raw)}
	}
	return v
}

// IsRaw reports whether a decoded value is the undecodable-body wrapper.
func IsRaw(v any) bool {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return false
	}
	_, ok = m[RawKey].(string)
	return ok
}
