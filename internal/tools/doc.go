// Package tools describes the editor tools: their input schemas, the typed
// argument structs they decode into, and the validator that checks raw
// arguments before anything is dispatched.
//
// Schemas mirror the wire contract clients already rely on, so field names
// such as parentId and addComponents keep their camelCase spelling.
package tools
