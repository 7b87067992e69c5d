package approval

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const erc20ABIJSON = `[
	{"type":"function","name":"allowance","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable",
	 "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]}
]`

const erc1155ABIJSON = `[
	{"type":"function","name":"isApprovedForAll","stateMutability":"view",
	 "inputs":[{"name":"account","type":"address"},{"name":"operator","type":"address"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"setApprovalForAll","stateMutability":"nonpayable",
	 "inputs":[{"name":"operator","type":"address"},{"name":"approved","type":"bool"}],
	 "outputs":[]}
]`

var (
	erc20ABI   = mustParseABI(erc20ABIJSON)
	erc1155ABI = mustParseABI(erc1155ABIJSON)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic("approval: invalid ABI: " + err.Error())
	}
	return parsed
}
