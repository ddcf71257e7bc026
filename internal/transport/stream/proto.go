package stream

import (
	"automata/internal/core"
	"automata/internal/voxel"
)

// Version is the wire protocol version clients must subscribe with.
const Version = "1.0"

const (
	TypeSubscribe = "SUBSCRIBE"
	TypeMeshFull  = "MESH_FULL"
	TypeTick      = "TICK"
)

// SubscribeMsg is the first client message on /v1/stream.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// Grid describes the streamed world.
type Grid struct {
	Sim      string  `json:"sim"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Depth    int     `json:"depth"`
	CellSize float32 `json:"cell_size"`
	Normals  bool    `json:"normals"`
	// FloatsPerVertex is 9, or 12 with normals.
	FloatsPerVertex int `json:"floats_per_vertex"`
}

// BootstrapResponse is served on /v1/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	Grid            Grid   `json:"grid"`
}

// CellMsg is one mesh slot. Absent slots only appear in TICK deltas.
type CellMsg struct {
	Pos     [3]int   `json:"pos"`
	Index   int      `json:"index"`
	Present bool     `json:"present"`
	Type    uint8    `json:"type,omitempty"`
	Color   [4]uint8 `json:"color,omitempty"`
	Mask    uint8    `json:"mask,omitempty"`
}

// MeshFullMsg carries every present cell of the mesh.
type MeshFullMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	Tick            uint64    `json:"tick"`
	Faces           int       `json:"faces"`
	Cells           []CellMsg `json:"cells"`
}

// TickMsg carries the counters and mesh deltas of one tick.
type TickMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	Tick            uint64          `json:"tick"`
	Population      core.Population `json:"population"`
	Deltas          []CellMsg       `json:"deltas"`
}

func cellMsg(d voxel.Delta) CellMsg {
	m := CellMsg{
		Pos:     [3]int{d.Coord.X, d.Coord.Y, d.Coord.Z},
		Index:   d.Index,
		Present: d.Present,
	}
	if d.Present {
		m.Type = d.Type
		m.Color = [4]uint8{d.Color.R, d.Color.G, d.Color.B, d.Color.A}
		m.Mask = uint8(d.Mask)
	}
	return m
}

func meshFull(mesh *voxel.Mesh, tick uint64) MeshFullMsg {
	msg := MeshFullMsg{
		Type:            TypeMeshFull,
		ProtocolVersion: Version,
		Tick:            tick,
		Faces:           mesh.FaceCount(),
		Cells:           make([]CellMsg, 0, mesh.Len()),
	}
	mesh.Cells(func(c core.Coord, d voxel.CellData) {
		msg.Cells = append(msg.Cells, cellMsg(voxel.Delta{
			Coord:   c,
			Index:   mesh.Index(c),
			Present: true,
			Type:    d.Type,
			Color:   d.Color,
			Mask:    d.Mask,
		}))
	})
	return msg
}
