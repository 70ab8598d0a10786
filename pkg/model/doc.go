// Package model defines the book records exchanged with the inventory REST API,
// the client-held filter state, and the raw form values read from the add and
// edit dialogs. Mapping between forms and request payloads lives here as pure
// functions so front-ends never build payloads by hand: create payloads always
// default genre/description to an empty string and force row=1 plus
// status=available, while update payloads omit blank genre/description and
// always carry lent_to (cleared unless the book is being saved as lent).
package model
