package evidence

// MapperFunc maps one batch to the evidence states of a single typology.
type MapperFunc func(Batch) EvidenceSet

// Mappers is the closed set of per-typology mapping functions (spec.md
// §4.3), keyed by typology name.
var Mappers = map[string]MapperFunc{
	"insider_dealing":        MapInsiderDealingEvidence,
	"spoofing":               MapSpoofingEvidence,
	"wash_trading":           MapWashTradingEvidence,
	"circular_trading":       MapCircularTradingEvidence,
	"cross_desk_collusion":   MapCrossDeskCollusionEvidence,
	"market_cornering":       MapMarketCorneringEvidence,
	"commodity_manipulation": MapCommodityManipulationEvidence,
	"economic_withholding":   MapEconomicWithholdingEvidence,
}
