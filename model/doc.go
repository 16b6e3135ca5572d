// Package model provides the in-memory rich document that the DOCX and ODT
// codecs translate to and from.
//
// # Document Structure
//
// A [Document] is an ordered list of [Block] values. The concrete blocks are:
//
//   - [Paragraph] - a style tag, [ParagraphGeometry] and a list of [Run]s
//   - [Table] - rows of cells, each cell holding its own blocks; a table is
//     either a visible data table or a borderless multi-column text flow
//   - [Image] - raw image bytes with bounds in points
//
// Documents are built once and treated as immutable snapshots by the codecs:
//
//	doc := model.NewDocument(
//	    model.NewParagraph("Book Title", model.Run{Text: "Moby-Dick"}),
//	    model.NewParagraph("Body Text", model.Run{Text: "Call me Ishmael."}),
//	)
//
// # Runs
//
// A [Run] is a span of text sharing one set of attributes. Attributes are
// only meaningful when the matching [RunAttr] bit is present in Run.Set, so a
// run can distinguish "not bold" from "bold not specified". Style defaults
// fill unset attributes and never overwrite set ones (see [Run.ApplyDefaults]).
//
// # Styles
//
// Style names are resolved through the [StyleResolver] interface. [Catalog]
// is an ordered, YAML-loadable implementation; [DefaultCatalog] returns the
// built-in set. [InferStyle] picks the closest catalog entry for an untagged
// paragraph.
//
// # Units
//
// Lengths in the model are points. [Twips] and [HalfPoints] convert to the
// units OOXML stores for layout and font sizes.
package model
