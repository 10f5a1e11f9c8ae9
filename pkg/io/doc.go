// Package io reads person tables and writes diagram declarations.
//
// # CSV Input
//
// [ReadCSV] decodes a table whose first row is a header. The recognized
// columns are:
//
//	id,person_name,sex,father_id,mother_id,marriage_1,marriage_2
//	1,Piero,M,,,2,
//	2,Pina,F,,,1,
//	3,Aurora,F,1,2,,
//
// Any other column is carried along in the row but ignored by the parser.
// Empty cells mean "unknown". Rows shorter than the header are padded with
// empty cells so that every row has every header column.
//
// # JSON Output
//
// [WriteJSON] encodes recorded declarations:
//
//	{
//	  "nodes": [{"key": "node-1-2", "label": "<p1> Piero | <c1_2> | <p2> Pina"}],
//	  "edges": [{"from": "node-1-2:c1_2", "to": "node-3:p3"}]
//	}
//
// [ReadJSON] and [ImportJSON] decode the same format, so a saved diagram can
// be rendered again without the source table ("familytree render tree.json").
//
// # Output Paths
//
// [NextVersionedPath] picks the first unused "name_N.ext" next to a base
// path, so repeated runs never overwrite an earlier diagram.
package io
