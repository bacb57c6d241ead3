// Package donation lists the cryptocurrency wallets the bot accepts donations on.
package donation

// Currency is a donation target shown as one button.
type Currency struct {
	Key     string
	Name    string
	Label   string
	Emoji   string
	Network string
	Address string
}

var currencies = []Currency{
	{Key: "bitcoin", Name: "Bitcoin (BTC)", Label: "Bitcoin (BTC)", Emoji: "🪙", Network: "Bitcoin Network", Address: "bc1qcpradle8w4p5r4thldcudjsyde3qa0uk66j2kx"},
	{Key: "ethereum", Name: "Ethereum (ETH)", Label: "Ethereum (ETH)", Emoji: "🔷", Network: "Ethereum Network", Address: "0x5f7b76c0825fc9b26ba13088e834804a15ae4b12"},
	{Key: "litecoin", Name: "Litecoin (LTC)", Label: "Litecoin (LTC)", Emoji: "⛏️", Network: "Litecoin Network", Address: "ltc1qcjk32rhmw9t5hazj72qlhlu6amsd5z9gkxwcnv"},
	{Key: "usdt_trc20", Name: "USDT (Tether)", Label: "USDT (TRC20)", Emoji: "💵", Network: "TRC20 (Tron Network)", Address: "TFGcWZsE2zRyHXBUtuZSCBqpjZAwEo3YY3"},
	{Key: "usdt_erc20", Name: "USDT (Tether)", Label: "USDT (ERC20)", Emoji: "💵", Network: "ERC20 (Ethereum Network)", Address: "0x468c2838e64a3fa1c6b3683d0494a20eedf07e29"},
	{Key: "dogecoin", Name: "Dogecoin (DOGE)", Label: "Dogecoin (DOGE)", Emoji: "🐶", Network: "Dogecoin Network", Address: "DU6bMjG25Kcg7qu9DYT66N4YDf8oJjnUpt"},
	{Key: "solana", Name: "Solana (SOL)", Label: "Solana (SOL)", Emoji: "💵", Network: "Solana Network", Address: "3UTimbRKjAYCnJnNTN7hS17a9esNQs5jP7RkJgpyniZ5"},
	{Key: "nano", Name: "Nano (NANO)", Label: "Nano (XNO)", Emoji: "💵", Network: "Nano Network", Address: "nano_1b15trz5bbpseeob71wuq37mm36bewq377tyeu83ndzacgdqpzw9eh1fkxoj"},
	{Key: "pepecoin", Name: "Pepecoin (PEPE)", Label: "Pepecoin (pepe)", Emoji: "🐸", Network: "Pepecoin Network", Address: "PmzT8BUhqWzavKVSwBbA9KuHojrvmGj7VD"},
}

// RowSize is the number of buttons per keyboard row.
const RowSize = 3

// All returns the currencies in display order.
func All() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// Lookup finds a currency by key.
func Lookup(key string) (Currency, bool) {
	for _, c := range currencies {
		if c.Key == key {
			return c, true
		}
	}
	return Currency{}, false
}

// Rows groups currencies into keyboard rows.
func Rows() [][]Currency {
	var rows [][]Currency
	for i := 0; i < len(currencies); i += RowSize {
		end := min(i+RowSize, len(currencies))
		rows = append(rows, All()[i:end])
	}
	return rows
}
