// Package htmldom is a host implementation over golang.org/x/net/html. It
// parses a document, exposes its forms and controls through the host
// interfaces, derives HTML constraint validation flags from control values,
// and implements the markup surface used by the class based style adapters.
//
// Forms opt into validation with the data-autovalidate attribute. The other
// option attributes are:
//
//	data-disable-validation
//	data-validate-non-visible-controls
//	data-display-errors-after-submit
//	data-errors-allowed-on-submit="required,minlength"
//	data-remove-external-validation-errors-on-submit="false"
//
// Nested forms are expressed with a data-subform container because the HTML
// parser drops nested <form> elements.
//
// A Document serialises all tree access behind one mutex so that background
// renders can run while the caller walks the tree.
package htmldom
