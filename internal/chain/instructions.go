package chain

import (
	"bytes"
	"encoding/binary"
)

// Instruction discriminators of the escrow program. The program itself is a
// black box; only its instruction-call contract is consumed here.
const (
	opReleaseEscrow    uint8 = 7
	opExpireWithdrawal uint8 = 11
)

// ReleaseEscrowInstruction builds the account list and instruction data that
// release escrowed funds to the seller after a completed sale.
func ReleaseEscrowInstruction(authority, escrow, listing, seller string, amount uint64) ([]AccountMeta, []byte) {
	accounts := []AccountMeta{
		{Address: authority, Signer: true, Writable: false},
		{Address: escrow, Signer: false, Writable: true},
		{Address: listing, Signer: false, Writable: false},
		{Address: seller, Signer: false, Writable: true},
	}

	var data bytes.Buffer
	data.WriteByte(opReleaseEscrow)
	_ = binary.Write(&data, binary.LittleEndian, amount)

	return accounts, data.Bytes()
}

// ExpireWithdrawalInstruction builds the instruction that expires an
// unclaimed withdrawal, unblocking the program's escrow-amount guard.
func ExpireWithdrawalInstruction(authority, listing, escrow, withdrawal, recipient string, withdrawalID uint64) ([]AccountMeta, []byte) {
	accounts := []AccountMeta{
		{Address: authority, Signer: true, Writable: false},
		{Address: listing, Signer: false, Writable: false},
		{Address: escrow, Signer: false, Writable: true},
		{Address: withdrawal, Signer: false, Writable: true},
		{Address: recipient, Signer: false, Writable: true},
	}

	var data bytes.Buffer
	data.WriteByte(opExpireWithdrawal)
	_ = binary.Write(&data, binary.LittleEndian, withdrawalID)

	return accounts, data.Bytes()
}
