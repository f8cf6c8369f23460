package address

import (
	"fmt"

	"periscope-sol/internal/consts"
	"periscope-sol/internal/idlerr"
	"periscope-sol/internal/types"

	"github.com/blocto/solana-go-sdk/common"
)

// DeriveIdlAddress 计算程序 IDL 账户地址（与 Anchor 完全一致）：
//  1. program signer = find_program_address([], program)
//  2. idl address    = create_with_seed(signer, "anchor:idl", program)
func DeriveIdlAddress(program types.Pubkey) (types.Pubkey, error) {
	programID := program.ToPublicKey()

	signer, _, err := common.FindProgramAddress([][]byte{}, programID)
	if err != nil {
		return types.Pubkey{}, idlerr.AddressDerivationFailed(fmt.Errorf("find program signer: %w", err))
	}

	idlAddress := common.CreateWithSeed(signer, consts.IdlSeed, programID)
	return types.PubkeyFromPublicKey(idlAddress), nil
}

// DeriveIdlAddressFromBytes 同 DeriveIdlAddress，输入为原始 32 字节
func DeriveIdlAddressFromBytes(program []byte) (types.Pubkey, error) {
	p, err := types.TryPubkeyFromBytes(program)
	if err != nil {
		return types.Pubkey{}, idlerr.AddressDerivationFailed(err)
	}
	return DeriveIdlAddress(p)
}

// DeriveIdlAddressFromBase58 同 DeriveIdlAddress，输入为 base58 程序地址
func DeriveIdlAddressFromBase58(program string) (types.Pubkey, error) {
	p, err := types.TryPubkeyFromBase58(program)
	if err != nil {
		return types.Pubkey{}, idlerr.AddressDerivationFailed(err)
	}
	return DeriveIdlAddress(p)
}
