package xmp

// Well-known namespace URIs.
const (
	NSDublinCore = "http://purl.org/dc/elements/1.1/"
	NSXMPBasic   = "http://ns.adobe.com/xap/1.0/"
	NSXMPRights  = "http://ns.adobe.com/xap/1.0/rights/"
	NSXMPMM      = "http://ns.adobe.com/xap/1.0/mm/"
	NSTIFF       = "http://ns.adobe.com/tiff/1.0/"
	NSEXIF       = "http://ns.adobe.com/exif/1.0/"
	NSPhotoshop  = "http://ns.adobe.com/photoshop/1.0/"
)

// StandardNamespaces lists the well-known namespaces with their customary
// prefixes, in registration order.
var StandardNamespaces = []struct {
	URI    string
	Prefix string
}{
	{NSDublinCore, "dc"},
	{NSXMPBasic, "xmp"},
	{NSXMPRights, "xmpRights"},
	{NSXMPMM, "xmpMM"},
	{NSTIFF, "tiff"},
	{NSEXIF, "exif"},
	{NSPhotoshop, "photoshop"},
}

// RegisterStandard binds every entry of StandardNamespaces in r.
func (r *Registry) RegisterStandard() {
	for _, ns := range StandardNamespaces {
		r.Register(ns.URI, ns.Prefix)
	}
}
