package services

import (
	"sort"

	"github.com/shopspring/decimal"
)

// GetPortfolioSummary condenses the user's portfolio into its headline
// figures: total invested, current value, and the overall return. The
// percentage is 0 when nothing is invested.
func (s *portfolioService) GetPortfolioSummary(userID uint) (*PortfolioSummary, error) {
	snapshot, err := s.GetPortfolio(userID)
	if err != nil {
		return nil, err
	}

	absoluteReturn := snapshot.TotalCurrentValue.Sub(snapshot.TotalInvestedValue)
	returnPercentage := decimal.Zero
	if snapshot.TotalInvestedValue.IsPositive() {
		returnPercentage = absoluteReturn.Mul(oneHundred).DivRound(snapshot.TotalInvestedValue, 2)
	}

	return &PortfolioSummary{
		TotalInvested:    snapshot.TotalInvestedValue,
		CurrentValue:     snapshot.TotalCurrentValue,
		AbsoluteReturn:   absoluteReturn,
		ReturnPercentage: returnPercentage,
	}, nil
}

// GetAssetAllocation groups the portfolio's current value by investment
// type. Entries are ordered largest share first, ties broken by type name
// so the output is stable. Percentages are of total current value and 0
// when the portfolio is worthless.
func (s *portfolioService) GetAssetAllocation(userID uint) ([]AssetAllocation, error) {
	snapshot, err := s.GetPortfolio(userID)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]decimal.Decimal)
	for _, h := range snapshot.Holdings {
		byType[h.Type] = byType[h.Type].Add(h.CurrentValue)
	}

	allocations := make([]AssetAllocation, 0, len(byType))
	for assetType, value := range byType {
		percentage := decimal.Zero
		if snapshot.TotalCurrentValue.IsPositive() {
			percentage = value.Mul(oneHundred).DivRound(snapshot.TotalCurrentValue, 2)
		}
		allocations = append(allocations, AssetAllocation{
			AssetType:    assetType,
			CurrentValue: value,
			Percentage:   percentage,
		})
	}
	sort.Slice(allocations, func(i, j int) bool {
		if c := allocations[i].CurrentValue.Cmp(allocations[j].CurrentValue); c != 0 {
			return c > 0
		}
		return allocations[i].AssetType < allocations[j].AssetType
	})
	return allocations, nil
}

// GetGainLossAnalysis lists each holding's invested amount, current value,
// and the resulting gain or loss.
func (s *portfolioService) GetGainLossAnalysis(userID uint) ([]HoldingGain, error) {
	snapshot, err := s.GetPortfolio(userID)
	if err != nil {
		return nil, err
	}

	gains := make([]HoldingGain, 0, len(snapshot.Holdings))
	for _, h := range snapshot.Holdings {
		gains = append(gains, HoldingGain{
			ProductName:    h.ProductName,
			InvestedAmount: h.InvestedValue,
			CurrentValue:   h.CurrentValue,
			GainOrLoss:     h.AbsoluteReturn,
		})
	}
	return gains, nil
}
