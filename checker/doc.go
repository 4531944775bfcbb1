// Package checker performs a structural sanity check on prepared output.
//
// The check loads the serialized document with kin-openapi and confirms it
// still parses as an OpenAPI document with no unresolvable references. It is
// a last line of defense before handing the file to a gateway importer, not
// a full validation pass: gateways apply their own stricter rules.
package checker
