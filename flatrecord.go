// Package flatrecord maps field values to and from single-line flat records:
// fixed-width (positional) records and delimited (CSV-like) records.
//
// A Layout describes one record shape. It is built by adding a descriptor for
// every field, a *FixedField for a FixedLayout or an *IndexedField for a
// DelimitedLayout, and is then used to parse lines into field values and to
// serialize field values back into lines. Values move between a layout and a
// record instance through an Accessor.
//
// Each field converts its value with a Decorator. Only the first character of
// every configured pad, delimiter, enclosure and escape string is significant;
// multi-byte characters are not supported in those roles.
//
// Struct types can describe their layout with field tags, see Marshal and
// Unmarshal.
package flatrecord
