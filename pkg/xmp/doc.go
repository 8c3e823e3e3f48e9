// Package xmp provides a typed, hierarchical view over a flat XMP-style
// metadata property store.
//
// A Metadata tree holds one Namespace per URI. Namespaces and structures map
// names to child elements; arrays hold ordered elements; sets hold distinct
// string values; values hold text. Paths that do not exist yet are
// represented by Virtual elements, which materialize the whole missing chain
// when assigned:
//
//	meta := xmp.NewMetadata(reg)
//	ns := meta.Namespace("http://test.com/xmp/test/1")
//	if err := ns.Key("a").Key("b").Set(12); err != nil {
//		return err
//	}
//	// ns.Key("a") is now a *Structure of length 1,
//	// ns.Key("a").Key("b").Value() == "12"
//
// Strict lookups (Structure.Item, Array.At) return types.ErrMissingKey on
// absence; lenient lookups (Key, Index) never fail and return a *Virtual.
//
// A Session binds a Metadata tree to a types.Store for one file and commits
// the tree when it is closed in read-write mode.
package xmp

// Version is the release version of the xmptree module.
const Version = "0.3.0"
