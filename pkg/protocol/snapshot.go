package protocol

import (
	"bombarena/pkg/core"

	"google.golang.org/protobuf/encoding/protowire"
)

// PlayerSnapshot 玩家状态的只读快照
type PlayerSnapshot struct {
	ID           int32
	X, Y         float64
	Facing       core.Direction
	Moving       bool
	Alive        bool
	Character    core.CharacterType
	BombCapacity int32
	BlastRadius  int32
	Speed        float64
	ActiveBombs  int32
}

// Tile 线上的格子坐标
type Tile struct {
	Col, Row int32
}

// BlastTileSnapshot 爆炸格子
type BlastTileSnapshot struct {
	Tile    Tile
	Segment core.Segment
	Dir     core.Direction
}

// CrateSnapshot 被炸毁的砖块
type CrateSnapshot struct {
	Tile Tile
	Drop core.DropKind
}

// BlastSnapshot 爆炸结果的只读快照
type BlastSnapshot struct {
	Origin       Tile
	Radius       int32
	Owner        int32
	PlayerKilled bool
	Tiles        []BlastTileSnapshot
	Destroyed    []CrateSnapshot
}

// Marshal 字段：1 id, 2 x, 3 y, 4 facing, 5 moving, 6 alive, 7 character,
// 8 capacity, 9 radius, 10 speed, 11 active
func (s *PlayerSnapshot) Marshal() []byte {
	b := appendSint(nil, 1, int64(s.ID))
	b = appendDouble(b, 2, s.X)
	b = appendDouble(b, 3, s.Y)
	b = appendVarint(b, 4, uint64(DirectionToWire(s.Facing)))
	b = appendBool(b, 5, s.Moving)
	b = appendBool(b, 6, s.Alive)
	b = appendVarint(b, 7, uint64(CharacterToWire(s.Character)))
	b = appendSint(b, 8, int64(s.BombCapacity))
	b = appendSint(b, 9, int64(s.BlastRadius))
	b = appendDouble(b, 10, s.Speed)
	b = appendSint(b, 11, int64(s.ActiveBombs))
	return b
}

// Unmarshal 解析玩家快照
func (s *PlayerSnapshot) Unmarshal(data []byte) error {
	*s = PlayerSnapshot{}
	return walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeSint32(typ, b, &s.ID)
		case 2:
			return consumeDouble(typ, b, &s.X)
		case 3:
			return consumeDouble(typ, b, &s.Y)
		case 4:
			var v uint64
			n := consumeVarint(typ, b, &v)
			s.Facing = DirectionFromWire(int32(v))
			return n
		case 5:
			return consumeBool(typ, b, &s.Moving)
		case 6:
			return consumeBool(typ, b, &s.Alive)
		case 7:
			var v uint64
			n := consumeVarint(typ, b, &v)
			s.Character = CharacterFromWire(int32(v))
			return n
		case 8:
			return consumeSint32(typ, b, &s.BombCapacity)
		case 9:
			return consumeSint32(typ, b, &s.BlastRadius)
		case 10:
			return consumeDouble(typ, b, &s.Speed)
		case 11:
			return consumeSint32(typ, b, &s.ActiveBombs)
		}
		return 0
	})
}

func appendTile(b []byte, num protowire.Number, t Tile) []byte {
	inner := appendSint(nil, 1, int64(t.Col))
	inner = appendSint(inner, 2, int64(t.Row))
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, inner)
}

func consumeTile(typ protowire.Type, b []byte, dst *Tile) int {
	var raw []byte
	n := consumeBytes(typ, b, &raw)
	if n <= 0 {
		return n
	}
	err := walkFields(raw, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeSint32(typ, b, &dst.Col)
		case 2:
			return consumeSint32(typ, b, &dst.Row)
		}
		return 0
	})
	if err != nil {
		return -1
	}
	return n
}

// Marshal 字段：1 origin, 2 radius, 3 owner, 4 killed,
// 5 重复的爆炸格子 {1 tile, 2 segment, 3 dir}, 6 重复的砖块 {1 tile, 2 drop}
func (s *BlastSnapshot) Marshal() []byte {
	b := appendTile(nil, 1, s.Origin)
	b = appendSint(b, 2, int64(s.Radius))
	b = appendSint(b, 3, int64(s.Owner))
	b = appendBool(b, 4, s.PlayerKilled)
	for _, t := range s.Tiles {
		inner := appendTile(nil, 1, t.Tile)
		inner = appendVarint(inner, 2, uint64(t.Segment))
		inner = appendVarint(inner, 3, uint64(DirectionToWire(t.Dir)))
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, inner)
	}
	for _, c := range s.Destroyed {
		inner := appendTile(nil, 1, c.Tile)
		inner = appendVarint(inner, 2, uint64(c.Drop))
		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendBytes(b, inner)
	}
	return b
}

// Unmarshal 解析爆炸快照
func (s *BlastSnapshot) Unmarshal(data []byte) error {
	*s = BlastSnapshot{}
	var nested error
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeTile(typ, b, &s.Origin)
		case 2:
			return consumeSint32(typ, b, &s.Radius)
		case 3:
			return consumeSint32(typ, b, &s.Owner)
		case 4:
			return consumeBool(typ, b, &s.PlayerKilled)
		case 5:
			var raw []byte
			n := consumeBytes(typ, b, &raw)
			if n <= 0 {
				return n
			}
			var t BlastTileSnapshot
			nested = walkFields(raw, func(num protowire.Number, typ protowire.Type, b []byte) int {
				var v uint64
				switch num {
				case 1:
					return consumeTile(typ, b, &t.Tile)
				case 2:
					n := consumeVarint(typ, b, &v)
					t.Segment = core.Segment(v)
					return n
				case 3:
					n := consumeVarint(typ, b, &v)
					t.Dir = DirectionFromWire(int32(v))
					return n
				}
				return 0
			})
			if nested != nil {
				return -1
			}
			s.Tiles = append(s.Tiles, t)
			return n
		case 6:
			var raw []byte
			n := consumeBytes(typ, b, &raw)
			if n <= 0 {
				return n
			}
			var c CrateSnapshot
			nested = walkFields(raw, func(num protowire.Number, typ protowire.Type, b []byte) int {
				switch num {
				case 1:
					return consumeTile(typ, b, &c.Tile)
				case 2:
					var v uint64
					n := consumeVarint(typ, b, &v)
					c.Drop = core.DropKind(v)
					return n
				}
				return 0
			})
			if nested != nil {
				return -1
			}
			s.Destroyed = append(s.Destroyed, c)
			return n
		}
		return 0
	})
	if nested != nil {
		return nested
	}
	return err
}

// NewPlayerSnapshotPacket 构造玩家快照消息包
func NewPlayerSnapshotPacket(s *PlayerSnapshot) *Packet {
	return &Packet{Type: MessagePlayerSnapshot, Payload: s.Marshal()}
}

// NewBlastSnapshotPacket 构造爆炸快照消息包
func NewBlastSnapshotPacket(s *BlastSnapshot) *Packet {
	return &Packet{Type: MessageBlastSnapshot, Payload: s.Marshal()}
}

// ParsePlayerSnapshot 从 Packet 中解析 PlayerSnapshot
func ParsePlayerSnapshot(pkt *Packet) (*PlayerSnapshot, error) {
	if err := expect(pkt, MessagePlayerSnapshot); err != nil {
		return nil, err
	}
	s := &PlayerSnapshot{}
	if err := s.Unmarshal(pkt.Payload); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseBlastSnapshot 从 Packet 中解析 BlastSnapshot
func ParseBlastSnapshot(pkt *Packet) (*BlastSnapshot, error) {
	if err := expect(pkt, MessageBlastSnapshot); err != nil {
		return nil, err
	}
	s := &BlastSnapshot{}
	if err := s.Unmarshal(pkt.Payload); err != nil {
		return nil, err
	}
	return s, nil
}
