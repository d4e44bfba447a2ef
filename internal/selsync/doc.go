// Package selsync keeps a host surface's native selection and the model
// selection in agreement.
//
// A host editing surface may move its own caret (default arrow-key
// handling, for instance) without telling the model. After every
// navigation-class key the Synchronizer reads the native selection back
// through a SelectionAdapter and forces the model to match. The adapter is
// the only place that knows about the host; TreeAdapter implements it for
// any host that can expose its selection as a node plus an offset inside a
// tree of nodes tagged with block-offset markers.
//
// HandleClickInEditor decides whether a click below the last block should
// create a new trailing block.
package selsync
