package chain

// chessFlipABI covers the slice of the contract the client relies on.
const chessFlipABI = `[
  {"type":"function","stateMutability":"view","name":"getPlayer","inputs":[{"name":"account","type":"address"}],"outputs":[{"type":"tuple","components":[{"name":"username","type":"string"},{"name":"totalPoints","type":"uint64"},{"name":"totalGames","type":"uint32"},{"name":"wins","type":"uint32"},{"name":"losses","type":"uint32"},{"name":"unclaimedPoints","type":"uint64"},{"name":"registered","type":"bool"}]}]},
  {"type":"function","stateMutability":"nonpayable","name":"registerPlayer","inputs":[{"name":"username","type":"string"}],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"startGame","inputs":[],"outputs":[{"name":"gameId","type":"uint256"}]},
  {"type":"function","stateMutability":"view","name":"getGame","inputs":[{"name":"gameId","type":"uint256"}],"outputs":[{"type":"tuple","components":[{"name":"id","type":"uint256"},{"name":"player","type":"address"},{"name":"outcome","type":"uint8"},{"name":"matchedPairs","type":"uint8"},{"name":"livesRemaining","type":"uint8"},{"name":"createdAt","type":"uint64"},{"name":"updatedAt","type":"uint64"},{"name":"pointsAwarded","type":"uint64"},{"name":"claimed","type":"bool"}]}]},
  {"type":"function","stateMutability":"nonpayable","name":"submitGameResult","inputs":[{"name":"gameId","type":"uint256"},{"name":"outcome","type":"uint8"},{"name":"matchedPairs","type":"uint8"},{"name":"livesRemaining","type":"uint8"}],"outputs":[]},
  {"type":"function","stateMutability":"nonpayable","name":"claimPoints","inputs":[{"name":"gameId","type":"uint256"}],"outputs":[]},
  {"type":"event","name":"PlayerRegistered","inputs":[{"name":"player","type":"address","indexed":true},{"name":"username","type":"string","indexed":false}]},
  {"type":"event","name":"GameStarted","inputs":[{"name":"gameId","type":"uint256","indexed":true},{"name":"player","type":"address","indexed":true}]},
  {"type":"event","name":"GameResultSubmitted","inputs":[{"name":"gameId","type":"uint256","indexed":true},{"name":"player","type":"address","indexed":true},{"name":"outcome","type":"uint8","indexed":false},{"name":"matchedPairs","type":"uint8","indexed":false},{"name":"livesRemaining","type":"uint8","indexed":false},{"name":"pointsAwarded","type":"uint64","indexed":false}]},
  {"type":"event","name":"PointsClaimed","inputs":[{"name":"gameId","type":"uint256","indexed":true},{"name":"player","type":"address","indexed":true},{"name":"pointsAwarded","type":"uint64","indexed":false}]}
]`

// erc20ABI is the slice of the fee token contract the client touches.
const erc20ABI = `[
  {"type":"function","stateMutability":"nonpayable","name":"approve","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"type":"bool"}]},
  {"type":"function","stateMutability":"view","name":"allowance","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"type":"uint256"}]}
]`
