package core

// CharacterType 玩家外观，按加入顺序轮流分配
type CharacterType int

const (
	CharacterWhite CharacterType = iota
	CharacterBlack
	CharacterRed
	CharacterBlue
	characterCount
)

// CharacterForSlot 第 slot 个加入的玩家使用的外观
func CharacterForSlot(slot int) CharacterType {
	if slot < 0 {
		slot = -slot
	}
	return CharacterType(slot % int(characterCount))
}

func (c CharacterType) String() string {
	switch c {
	case CharacterWhite:
		return "白"
	case CharacterBlack:
		return "黑"
	case CharacterRed:
		return "红"
	case CharacterBlue:
		return "蓝"
	}
	return "未知"
}
