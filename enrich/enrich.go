// Package enrich derives security signals from attribute records: decoded
// userAccountControl flags, readable timestamps, and the tag set the viewer
// filters on. Every rule is a pure function of the record and the config;
// a value that cannot be decoded is a missing-data state, not an error.
package enrich

import (
	"strconv"
	"strings"
	"time"

	"advault/directory"
	"advault/directory/decode"

	"github.com/rs/zerolog"
)

// Config carries the enrichment thresholds plus the clock reading used for
// staleness, so a whole batch is judged against one instant.
type Config struct {
	LogonCountThreshold int
	StaleLogonDays      int
	Now                 time.Time
}

// Tag strings for the viewer. Composite conditions fold into the #BadAccount
// umbrella token so one filter catches them all.
const (
	TagLowLogonCount  = "#BadAccount due to #LowLogonCount at this Domain Controller"
	TagStaleLogon     = "#BadAccount due to #StaleLogons at this Domain Controller"
	TagStaleLogonRepl = "#BadAccount due to #StaleLogons replicated across the Domain. " +
		"See info on 'lastlogontimestamp' attribute for more information."
	TagDisabledOrLocked = "#BadAccount due to #DisabledOrLockedAccount at this Domain Controller"
	TagPasswordExpired  = "#BadAccount because #PasswordExpired at this Domain Controller"
	TagDelegation       = "#DelegationOpportunity"
	TagNormalAccount    = "#NormalAccount"
	TagServerTrust      = "#ServerTrustAccount"
	TagSmartcard        = "#SmartcardRequired"
	TagCreds            = "#Creds because of #UserPasswordAttribute. This is a #HighImportance finding!"
)

// timeAttrs are the FILETIME attributes decoded into the Clean Timestamps
// section, in render order.
var timeAttrs = []string{
	"pwdlastset",
	"badpasswordtime",
	"lastlogon",
	"lastlogontimestamp",
	"accountexpires",
}

// Apply fills the object's derived fields from its attribute record. It runs
// before linking; admin detection needs resolved parents and lives with the
// linker.
func Apply(obj *directory.Object, cfg Config, logger zerolog.Logger) {
	// Derived fields are recomputed from scratch; reapplying is a no-op.
	obj.UACFlags = nil
	obj.Timestamps = nil

	applyUAC(obj, logger)
	applyTimestamps(obj, cfg, logger)
	applyLogonCount(obj, cfg, logger)
	applyCreds(obj)
}

func applyUAC(obj *directory.Object, logger zerolog.Logger) {
	raw, ok := obj.Attributes.FirstString("useraccountcontrol")
	if !ok {
		return
	}
	flags, err := decode.ParseUACFlags(raw)
	if err != nil {
		logger.Warn().Str("identity", obj.Identity).Err(err).
			Msg("skipping userAccountControl decode")
		return
	}
	obj.UACFlags = flags

	set := make(map[string]bool, len(flags))
	for _, f := range flags {
		set[f] = true
	}
	if set[decode.FlagSmartcardRequired] {
		AddTag(obj, TagSmartcard)
	}
	if set[decode.FlagLockout] || set[decode.FlagAccountDisable] {
		AddTag(obj, TagDisabledOrLocked)
	}
	if set[decode.FlagPasswordExpired] {
		AddTag(obj, TagPasswordExpired)
	}
	if set[decode.FlagTrustedForDelegation] || set[decode.FlagTrustedToAuthForDeleg] {
		AddTag(obj, TagDelegation)
	}
	if set[decode.FlagNormalAccount] {
		AddTag(obj, TagNormalAccount)
	}
	if set[decode.FlagServerTrust] {
		AddTag(obj, TagServerTrust)
	}
}

func applyTimestamps(obj *directory.Object, cfg Config, logger zerolog.Logger) {
	cutoff := cfg.Now.AddDate(0, 0, -cfg.StaleLogonDays)

	for _, attr := range timeAttrs {
		raw, ok := obj.Attributes.FirstString(attr)
		if !ok {
			continue
		}
		ft, err := decode.ParseFiletime(raw)
		if err != nil {
			logger.Debug().Str("identity", obj.Identity).Str("attribute", attr).Err(err).
				Msg("skipping timestamp decode")
			continue
		}
		obj.Timestamps = append(obj.Timestamps, directory.Timestamp{
			Attr:  attr,
			Value: ft.String(),
		})

		if !ft.IsTime() {
			continue
		}
		if ft.Time.Before(cutoff) {
			switch attr {
			case "lastlogon":
				AddTag(obj, TagStaleLogon)
			case "lastlogontimestamp":
				AddTag(obj, TagStaleLogonRepl)
			}
		}
	}
}

func applyLogonCount(obj *directory.Object, cfg Config, logger zerolog.Logger) {
	raw, ok := obj.Attributes.FirstString("logoncount")
	if !ok {
		return
	}
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		logger.Warn().Str("identity", obj.Identity).Str("value", raw).
			Msg("invalid logon count value")
		return
	}
	if count < cfg.LogonCountThreshold {
		AddTag(obj, TagLowLogonCount)
	}
}

func applyCreds(obj *directory.Object) {
	if obj.Attributes.Has("userpassword") {
		AddTag(obj, TagCreds)
	}
}

// AddTag appends tag to the object unless already present.
func AddTag(obj *directory.Object, tag string) {
	for _, t := range obj.Tags {
		if t == tag {
			return
		}
	}
	obj.Tags = append(obj.Tags, tag)
}
