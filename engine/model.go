package engine

// fileModel is everything rendered into one source file. Slices are sorted
// before rendering so output depends only on the document and settings.
type fileModel struct {
	Generator  string
	Usings     []string
	Namespace  string
	Interfaces []*interfaceModel
	Contracts  []*contractModel
	Enums      []*enumModel
	DI         *diModel
}

type interfaceModel struct {
	Accessibility string
	Name          string
	Doc           []string
	Methods       []*methodModel
}

type methodModel struct {
	Doc        []string
	Deprecated bool
	Multipart  bool
	Accept     string
	Verb       string
	Path       string
	Signature  string
}

// paramModel is a rendered method parameter. Optional parameters sort
// after required ones when defaults are enabled.
type paramModel struct {
	Decl     string
	Name     string
	Doc      string
	Optional bool
}

type contractModel struct {
	Accessibility string
	Name          string
	Base          string
	Doc           []string
	Deprecated    bool
	Properties    []*propertyModel
	ExtensionData bool
}

type propertyModel struct {
	Doc        []string
	Deprecated bool
	JSONName   string
	Name       string
	Type       string
}

type enumModel struct {
	Accessibility string
	Name          string
	Doc           []string
	Members       []enumMember
}

type enumMember struct {
	Name  string
	Value string
}

type diModel struct {
	Accessibility string
	Interfaces    []string
}
