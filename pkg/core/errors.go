package core

import "errors"

var (
	ErrInvalidDropTable = errors.New("掉落表配置无效")
	ErrInvalidStats     = errors.New("玩家属性无效")
	ErrInvalidRules     = errors.New("规则配置无效")
	ErrInvalidGeometry  = errors.New("地图几何无效")
	ErrNoSpawn          = errors.New("没有可用的出生点")
	ErrDuplicatePlayer  = errors.New("玩家已存在")
)
