package fbx

import (
	"time"
)

const Creator = "additive_anim 1.0.0"

// KTime units per second
const TimeSecond = 46186158000

func NewFbx() *FBX {
	timenow := time.Now()
	return &FBX{
		FBXHeaderExtension: FBXHeaderExtension{
			FBXHeaderVersion: 1003,
			FBXVersion:       7400,
			Creator:          Creator,
			CreationTimeStamp: &CreationTimeStamp{
				Version:     1000,
				Year:        timenow.Year(),
				Month:       int(timenow.Month()),
				Day:         timenow.Day(),
				Hour:        timenow.Hour(),
				Minute:      timenow.Minute(),
				Second:      timenow.Second(),
				Millisecond: timenow.Nanosecond() / 1000000,
			},
		},
		GlobalSettings: &GlobalSettings{
			Version: 1000,
		},
		Documents: Documents{
			Count: 1,
			Document: []*Document{
				&Document{
					Id:       1000000,
					Name:     "Scene",
					Element:  "Scene",
					RootNode: 0,
				},
			},
		},
		files: make(map[string][]byte),
	}
}

// FrameTime converts a frame number to KTime.
func FrameTime(frame float64, fps float64) int64 {
	return int64(frame * (TimeSecond / fps))
}

// SetFrameRate stores a custom frame rate and the time span in global settings.
func (f *FBX) SetFrameRate(fps float64, start, stop int64) {
	p := &f.GlobalSettings.Properties70
	p.Add("UpAxis", "int", "Integer", "", 1)
	p.Add("UpAxisSign", "int", "Integer", "", 1)
	p.Add("FrontAxis", "int", "Integer", "", 2)
	p.Add("FrontAxisSign", "int", "Integer", "", 1)
	p.Add("CoordAxis", "int", "Integer", "", 0)
	p.Add("CoordAxisSign", "int", "Integer", "", 1)
	p.Add("UnitScaleFactor", "double", "Number", "", 1.0)
	p.Add("TimeMode", "enum", "", "", 14) // custom
	p.Add("CustomFrameRate", "double", "Number", "", fps)
	p.Add("TimeSpanStart", "KTime", "Time", "", start)
	p.Add("TimeSpanStop", "KTime", "Time", "", stop)
}

func (f *FBX) CountDefinitions() {
	allcount := 0
	f.Definitions.ObjectType = f.Definitions.ObjectType[:0]

	doCount := func(count int, name string) {
		if count > 0 {
			allcount += count
			f.Definitions.ObjectType = append(f.Definitions.ObjectType, &ObjectTypeDefinition{
				Name: name, Count: count,
			})
		}
	}

	if f.GlobalSettings != nil {
		doCount(1, "GlobalSettings")
	}

	doCount(len(f.Objects.Model), "Model")
	doCount(len(f.Objects.NodeAttribute), "NodeAttribute")
	doCount(len(f.Objects.AnimationStack), "AnimationStack")
	doCount(len(f.Objects.AnimationLayer), "AnimationLayer")
	doCount(len(f.Objects.AnimationCurveNode), "AnimationCurveNode")
	doCount(len(f.Objects.AnimationCurve), "AnimationCurve")

	f.Definitions.Version = 100
	f.Definitions.Count = allcount
}

func (f *FBX) Connect(child, parent uint64, extra ...string) {
	typ := "OO"
	if len(extra) != 0 {
		typ = "OP"
	}
	f.Connections.C = append(f.Connections.C, Connection{
		Type: typ, Child: child, Parent: parent, Extra: extra,
	})
}
