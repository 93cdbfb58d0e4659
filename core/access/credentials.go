//
// This file contains the implementation of contract credentials.
//

package access

// ContractCredential is a credential for a contract and a command inside the
// contract.
//
// - implements access.Credential
type ContractCredential struct {
	id       []byte
	contract string
	command  string
}

// NewContractCreds creates new credentials for the contract and the command.
func NewContractCreds(id []byte, contract, command string) ContractCredential {
	return ContractCredential{
		id:       id,
		contract: contract,
		command:  command,
	}
}

// GetID implements access.Credential. It returns the identifier of the
// credential.
func (cc ContractCredential) GetID() []byte {
	return append([]byte{}, cc.id...)
}

// GetRule implements access.Credential. It returns the rule compiled from
// the contract and the command.
func (cc ContractCredential) GetRule() string {
	return Compile(cc.contract, cc.command)
}
