package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxPacketSize 单个帧的最大长度
const MaxPacketSize = 4096

var ErrFrameTooLarge = errors.New("消息过大")

// WriteFrame 写入 4 字节大端长度前缀和数据体
func WriteFrame(w io.Writer, data []byte) error {
	if len(data) > MaxPacketSize {
		return fmt.Errorf("%w (%d bytes)", ErrFrameTooLarge, len(data))
	}
	buf := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(buf, uint32(len(data)))
	copy(buf[4:], data)
	_, err := w.Write(buf)
	return err
}

// ReadFrame 读取一个帧；长度为 0 的帧返回空切片
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > MaxPacketSize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrFrameTooLarge, length)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

// WritePacket 序列化并写入一个帧
func WritePacket(w io.Writer, pkt *Packet) error {
	data, err := MarshalPacket(pkt)
	if err != nil {
		return err
	}
	return WriteFrame(w, data)
}

// ReadPacket 读取并解析一个帧
func ReadPacket(r io.Reader) (*Packet, error) {
	data, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return UnmarshalPacket(data)
}
