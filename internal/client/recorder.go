package client

import (
	"io"

	"bombarena/pkg/core"
	"bombarena/pkg/protocol"

	"github.com/rs/zerolog"
)

// Recorder 爆炸观察者：每次爆炸写入一个爆炸快照帧，随后是每个玩家的快照帧
type Recorder struct {
	sim    *core.Simulation
	w      io.Writer
	log    zerolog.Logger
	frames int
	err    error
}

// NewRecorder 注册到 sim；w 为 nil 时只写调试日志
func NewRecorder(sim *core.Simulation, w io.Writer, log zerolog.Logger) *Recorder {
	r := &Recorder{sim: sim, w: w, log: log}
	sim.OnBlast(r.onBlast)
	return r
}

func (r *Recorder) onBlast(res *core.BlastResult) {
	blast := protocol.BlastSnapshotFrom(res)
	players := protocol.PlayerSnapshotsFrom(r.sim.Players())

	r.log.Debug().
		Int32("owner", blast.Owner).
		Int("tiles", len(blast.Tiles)).
		Int("crates", len(blast.Destroyed)).
		Bool("killed", blast.PlayerKilled).
		Int("pending", r.sim.Pending()).
		Msg("记录爆炸")

	if r.w == nil || r.err != nil {
		return
	}
	packets := make([]*protocol.Packet, 0, 1+len(players))
	packets = append(packets, protocol.NewBlastSnapshotPacket(blast))
	for _, p := range players {
		packets = append(packets, protocol.NewPlayerSnapshotPacket(p))
	}
	for _, pkt := range packets {
		if err := protocol.WritePacket(r.w, pkt); err != nil {
			r.err = err
			r.log.Warn().Err(err).Msg("写入记录失败，停止记录")
			return
		}
		r.frames++
	}
}

// Frames 已写入的帧数
func (r *Recorder) Frames() int {
	return r.frames
}

// Err 第一次写入错误
func (r *Recorder) Err() error {
	return r.err
}
