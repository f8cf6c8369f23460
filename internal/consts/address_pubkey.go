package consts

import (
	"periscope-sol/internal/types"
)

// 公钥形式的地址常量（types.Pubkey），用于链上比对、测试等场景。
var (
	SystemProgram types.Pubkey

	JupiterV6Program   types.Pubkey
	PumpFunProgram     types.Pubkey
	RaydiumCLMMProgram types.Pubkey
	MeteoraDLMMProgram types.Pubkey
)

// init 自动将 base58 字符串地址转换为 types.Pubkey
func init() {
	SystemProgram = types.PubkeyFromBase58(SystemProgramStr)

	JupiterV6Program = types.PubkeyFromBase58(JupiterV6ProgramStr)
	PumpFunProgram = types.PubkeyFromBase58(PumpFunProgramStr)
	RaydiumCLMMProgram = types.PubkeyFromBase58(RaydiumCLMMProgramStr)
	MeteoraDLMMProgram = types.PubkeyFromBase58(MeteoraDLMMProgramStr)
}
