package consts

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	// Programs
	SystemProgramStr = "11111111111111111111111111111111"

	// 常见 Anchor 程序（链上带 IDL 账户）
	JupiterV6ProgramStr     = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	PumpFunProgramStr       = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	RaydiumCLMMProgramStr   = "CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK"
	MeteoraDLMMProgramStr   = "LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo"
	OrcaWhirlpoolProgramStr = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"
	PumpFunAMMProgramStr    = "pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"
	RaydiumCPMMProgramStr   = "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"
)

// KnownIdlPrograms 默认同步 IDL 的程序列表
var KnownIdlPrograms = []string{
	JupiterV6ProgramStr,
	PumpFunProgramStr,
	RaydiumCLMMProgramStr,
	MeteoraDLMMProgramStr,
	OrcaWhirlpoolProgramStr,
	PumpFunAMMProgramStr,
	RaydiumCPMMProgramStr,
}
