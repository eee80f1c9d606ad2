package fbx

// FBX mirrors the node tree of an ascii fbx 7.4 file, see Export for the
// meaning of the field tags.
type FBX struct {
	FBXHeaderExtension FBXHeaderExtension
	GlobalSettings     *GlobalSettings
	Documents          Documents
	References         References
	Definitions        Definitions
	Objects            Objects
	Connections        Connections
	Takes              *Takes

	lastAllocatedId uint64

	files map[string][]byte
}

func (f *FBX) GenerateId() uint64 {
	if f.lastAllocatedId == 0 {
		f.lastAllocatedId = 1000000 // used for document id
	}
	f.lastAllocatedId++
	return f.lastAllocatedId
}

type References struct {
}

type Document struct {
	Id      uint64 `fbx:"p"`
	Name    string `fbx:"p"`
	Element string `fbx:"p"`

	Properties70 Properties70

	RootNode int
}

type Documents struct {
	Count    int
	Document []*Document
}

type CreationTimeStamp struct {
	Version     int
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

type FBXHeaderExtension struct {
	FBXHeaderVersion  int
	FBXVersion        int
	CreationTimeStamp *CreationTimeStamp
	Creator           string
}

type Property70 struct {
	Name    string      `fbx:"p"`
	Type    string      `fbx:"p"`
	Purpose string      `fbx:"p"`
	Flags   string      `fbx:"p"`
	Value   interface{} `fbx:"p"`
}

type Properties70 struct {
	P []*Property70
}

func (p *Properties70) Add(name, typ, purpose, flags string, value interface{}) {
	p.P = append(p.P, &Property70{Name: name, Type: typ, Purpose: purpose, Flags: flags, Value: value})
}

type GlobalSettings struct {
	Version      int
	Properties70 Properties70
}

type PropertyTemplate struct {
	TemplateName string `fbx:"p"`
	Properties70 Properties70
}

type ObjectTypeDefinition struct {
	Name             string `fbx:"p"`
	Count            int
	PropertyTemplate *PropertyTemplate
}

type Definitions struct {
	Version int
	Count   int

	ObjectType []*ObjectTypeDefinition
}

type Model struct {
	Id           uint64 `fbx:"p"`
	Name         string `fbx:"p"`
	Element      string `fbx:"p"`
	Version      int
	Properties70 Properties70
	Shading      bool
	Culling      string
}

type NodeAttribute struct {
	Id      uint64 `fbx:"p"`
	Name    string `fbx:"p"`
	Element string `fbx:"p"`

	Properties70 Properties70
	TypeFlags    string
}

type AnimationStack struct {
	Id      uint64 `fbx:"p"`
	Name    string `fbx:"p"`
	Element string `fbx:"p"`

	Properties70 Properties70
}

type AnimationLayer struct {
	Id      uint64 `fbx:"p"`
	Name    string `fbx:"p"`
	Element string `fbx:"p"`
}

type AnimationCurveNode struct {
	Id      uint64 `fbx:"p"`
	Name    string `fbx:"p"`
	Element string `fbx:"p"`

	Properties70 Properties70
}

// AnimationCurve keys are typed slices: KeyTime []int64, KeyValueFloat []float32,
// KeyAttrFlags []int32, KeyAttrDataFloat []float32, KeyAttrRefCount []int32.
type AnimationCurve struct {
	Id      uint64 `fbx:"p"`
	Name    string `fbx:"p"`
	Element string `fbx:"p"`

	Default          float64
	KeyVer           int
	KeyTime          interface{} `fbx:"a"`
	KeyValueFloat    interface{} `fbx:"a"`
	KeyAttrFlags     interface{} `fbx:"a"`
	KeyAttrDataFloat interface{} `fbx:"a"`
	KeyAttrRefCount  interface{} `fbx:"a"`
}

type Objects struct {
	Model              []*Model
	NodeAttribute      []*NodeAttribute
	AnimationStack     []*AnimationStack
	AnimationLayer     []*AnimationLayer
	AnimationCurveNode []*AnimationCurveNode
	AnimationCurve     []*AnimationCurve
}

type Connection struct {
	Type   string   `fbx:"p"`
	Child  uint64   `fbx:"p"`
	Parent uint64   `fbx:"p"`
	Extra  []string `fbx:"p"`
}

type Connections struct {
	C []Connection
}

type Take struct {
	Name          string `fbx:"p"`
	FileName      string
	LocalTime     []int64 `fbx:"i"`
	ReferenceTime []int64 `fbx:"i"`
}

type Takes struct {
	Current string
	Take    []*Take
}
