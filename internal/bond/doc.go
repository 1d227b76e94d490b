// Package bond prices fixed-rate coupon bonds and solves clean price to yield.
//
// The evaluation date is always an explicit argument. Nothing in this package
// holds a global "as of" setting, so concurrent solves for different dates are
// independent.
//
// U.S. Treasury notes and bonds use the street convention: semiannual coupons,
// Actual/Actual (ISMA), yield compounded semiannually, T+2 settlement on the
// government bond calendar.
package bond
