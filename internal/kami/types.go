package kami

// KamiInterface is the surface of the chain RPC sidecar used by the
// validator: peer registry reads and weight commits.
type KamiInterface interface {
	GetMetagraph(netuid int) (SubnetMetagraphResponse, error)
	GetLatestBlock() (LatestBlockResponse, error)
	SetWeights(params SetWeightsParams) (ExtrinsicHashResponse, error)
	SignMessage(params SignMessageParams) (SignMessageResponse, error)
	GetKeyringPair() (KeyringPairInfoResponse, error)
}

type SubtensorResponse[T any] struct {
	StatusCode int            `json:"statusCode"`
	Success    bool           `json:"success"`
	Data       T              `json:"data"`
	Error      map[string]any `json:"error"`
}

type (
	SubnetMetagraphResponse = SubtensorResponse[SubnetMetagraph]
	LatestBlockResponse     = SubtensorResponse[LatestBlock]
	KeyringPairInfoResponse = SubtensorResponse[KeyringPairInfo]
	SignMessageResponse     = SubtensorResponse[SignMessage]
	ExtrinsicHashResponse   = SubtensorResponse[string]
)

// SubnetMetagraph is the subset of on-chain subnet state the validator
// needs: the peer registry (hotkeys and axon endpoints) plus stake data.
type SubnetMetagraph struct {
	Netuid     int        `json:"netuid"`
	Name       string     `json:"name"`
	Block      int        `json:"block"`
	Tempo      int        `json:"tempo"`
	NumUids    int        `json:"numUids"`
	MaxUids    int        `json:"maxUids"`
	Hotkeys    []string   `json:"hotkeys"`
	Coldkeys   []string   `json:"coldkeys"`
	Axons      []AxonInfo `json:"axons"`
	Active     []bool     `json:"active"`
	LastUpdate []int      `json:"lastUpdate"`
	AlphaStake []float64  `json:"alphaStake"`
	TaoStake   []float64  `json:"taoStake"`
	TotalStake []float64  `json:"totalStake"`
}

type AxonInfo struct {
	Block    int    `json:"block"`
	Version  int    `json:"version"`
	IP       string `json:"ip"`
	Port     int    `json:"port"`
	IPType   int    `json:"ipType"`
	Protocol int    `json:"protocol"`
}

type LatestBlock struct {
	ParentHash     string `json:"parentHash"`
	BlockNumber    int    `json:"blockNumber"`
	StateRoot      string `json:"stateRoot"`
	ExtrinsicsRoot string `json:"extrinsicsRoot"`
}

type KeyringPair struct {
	Address   string         `json:"address"`
	IsLocked  bool           `json:"isLocked"`
	Meta      map[string]any `json:"meta"`
	PublicKey map[string]any `json:"publicKey"`
	Type      string         `json:"type"`
}

type KeyringPairInfo struct {
	KeyringPair   KeyringPair `json:"keyringPair"`
	WalletColdkey string      `json:"walletColdkey"`
}

type SetWeightsParams struct {
	Netuid     int   `json:"netuid"`
	Dests      []int `json:"dests"`
	Weights    []int `json:"weights"`
	VersionKey int   `json:"versionKey"`
}

type SignMessageParams struct {
	Message string `json:"message"`
}

type SignMessage struct {
	Signature string `json:"signature"`
}
