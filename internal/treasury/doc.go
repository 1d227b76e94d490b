// Package treasury provides the TreasuryDirect client used as the upstream data source.
//
// Endpoints:
//   - FedInvest price detail (form POST, CSV): daily buy/sell/end of day prices
//     for every marketable security. An empty file means nothing was published.
//   - TA_WS securities search (GET, JSON): issue/maturity/coupon reference data
//     per CUSIP. Several auctions (reopenings) can share a CUSIP.
package treasury
