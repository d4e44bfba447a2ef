// Package snapshot converts a content.State to and from its persisted JSON
// form.
//
// The document layout is a list of blocks plus an entity map:
//
//	{
//	  "blocks": [
//	    {"key": "a1", "type": "unstyled", "text": "Hello Ann", "depth": 0,
//	     "inlineStyleRanges": [{"offset": 0, "length": 5, "style": "BOLD"}],
//	     "entityRanges": [{"offset": 6, "length": 3, "key": "e1"}],
//	     "data": {}}
//	  ],
//	  "entityMap": {
//	    "e1": {"type": "mention-person", "mutability": "IMMUTABLE", "data": {"id": "u1"}}
//	  },
//	  "meta": {"version": 1, "documentId": "...", "savedAt": "..."}
//	}
//
// Offsets and lengths count code points. Decoding is lenient about missing
// fields and numeric strings; anything that cannot form a valid document
// fails with ErrInvalidSnapshot.
package snapshot
