// Package tool defines caller-supplied tools that providers execute when a
// model asks for them.
//
// A [Tool] carries the name, description and JSON schema advertised to the
// model plus an Execute function that receives the raw arguments string the
// model produced. [Define] builds one from a typed function; arguments are
// parsed leniently with core/parse so slightly broken JSON still works.
//
// A [Set] indexes tools by case-insensitive name and keeps registration order
// for the request payload.
package tool
