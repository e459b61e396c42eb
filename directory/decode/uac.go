// Package decode turns encoded directory attribute values into security
// signals: userAccountControl bit flags and FILETIME timestamps.
package decode

import (
	"fmt"
	"strconv"
)

// Flag names follow the ADS_USER_FLAG_ENUM vocabulary the viewer's
// reference note links against.
const (
	FlagScript                 = "ADS_UF_SCRIPT"
	FlagAccountDisable         = "ADS_UF_ACCOUNTDISABLE"
	FlagHomedirRequired        = "ADS_UF_HOMEDIR_REQUIRED"
	FlagLockout                = "ADS_UF_LOCKOUT"
	FlagPasswdNotRequired      = "ADS_UF_PASSWD_NOTREQD"
	FlagPasswdCantChange       = "ADS_UF_PASSWD_CANT_CHANGE"
	FlagEncryptedTextPwAllowed = "ADS_UF_ENCRYPTED_TEXT_PASSWORD_ALLOWED"
	FlagTempDuplicateAccount   = "ADS_UF_TEMP_DUPLICATE_ACCOUNT"
	FlagNormalAccount          = "ADS_UF_NORMAL_ACCOUNT"
	FlagInterdomainTrust       = "ADS_UF_INTERDOMAIN_TRUST_ACCOUNT"
	FlagWorkstationTrust       = "ADS_UF_WORKSTATION_TRUST_ACCOUNT"
	FlagServerTrust            = "ADS_UF_SERVER_TRUST_ACCOUNT"
	FlagDontExpirePasswd       = "ADS_UF_DONT_EXPIRE_PASSWD"
	FlagMNSLogonAccount        = "ADS_UF_MNS_LOGON_ACCOUNT"
	FlagSmartcardRequired      = "ADS_UF_SMARTCARD_REQUIRED"
	FlagTrustedForDelegation   = "ADS_UF_TRUSTED_FOR_DELEGATION"
	FlagNotDelegated           = "ADS_UF_NOT_DELEGATED"
	FlagUseDESKeyOnly          = "ADS_UF_USE_DES_KEY_ONLY"
	FlagDontRequirePreauth     = "ADS_UF_DONT_REQUIRE_PREAUTH"
	FlagPasswordExpired        = "ADS_UF_PASSWORD_EXPIRED"
	FlagTrustedToAuthForDeleg  = "ADS_UF_TRUSTED_TO_AUTHENTICATE_FOR_DELEGATION"
)

// uacBits maps each documented userAccountControl bit to its name, ascending.
// See https://learn.microsoft.com/en-us/windows/win32/adsi/ads-user-flag-enum
var uacBits = []struct {
	bit  uint32
	name string
}{
	{0x00000001, FlagScript},
	{0x00000002, FlagAccountDisable},
	{0x00000008, FlagHomedirRequired},
	{0x00000010, FlagLockout},
	{0x00000020, FlagPasswdNotRequired},
	{0x00000040, FlagPasswdCantChange},
	{0x00000080, FlagEncryptedTextPwAllowed},
	{0x00000100, FlagTempDuplicateAccount},
	{0x00000200, FlagNormalAccount},
	{0x00000800, FlagInterdomainTrust},
	{0x00001000, FlagWorkstationTrust},
	{0x00002000, FlagServerTrust},
	{0x00010000, FlagDontExpirePasswd},
	{0x00020000, FlagMNSLogonAccount},
	{0x00040000, FlagSmartcardRequired},
	{0x00080000, FlagTrustedForDelegation},
	{0x00100000, FlagNotDelegated},
	{0x00200000, FlagUseDESKeyOnly},
	{0x00400000, FlagDontRequirePreauth},
	{0x00800000, FlagPasswordExpired},
	{0x01000000, FlagTrustedToAuthForDeleg},
}

// UACFlags returns the names of all set bits in ascending bit order.
// Unknown or reserved bits are ignored, not errors.
func UACFlags(value uint32) []string {
	var flags []string
	for _, f := range uacBits {
		if value&f.bit != 0 {
			flags = append(flags, f.name)
		}
	}
	return flags
}

// ParseUACFlags decodes a textual userAccountControl value.
func ParseUACFlags(s string) ([]string, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid userAccountControl value %q: %w", s, err)
	}
	return UACFlags(uint32(v)), nil
}
