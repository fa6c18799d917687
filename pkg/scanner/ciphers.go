package scanner

import (
	"fmt"

	"github.com/jphoke/tlsinspect/pkg/report"
)

// CipherSuiteInfo describes one cipher suite the scanner can offer.
type CipherSuiteInfo struct {
	ID          uint16
	Name        string
	OpenSSLName string
	KeySize     int
	// TLS12Only marks suites that need TLS 1.2 (AEAD or SHA-2 MACs).
	TLS12Only bool
}

// Suite converts the table entry to its report form.
func (c CipherSuiteInfo) Suite() report.CipherSuite {
	return report.CipherSuite{Name: c.Name, OpenSSLName: c.OpenSSLName, KeySize: c.KeySize}
}

var legacyCipherSuites = []CipherSuiteInfo{
	{ID: 0x0001, Name: "TLS_RSA_WITH_NULL_MD5", OpenSSLName: "NULL-MD5", KeySize: 0},
	{ID: 0x0002, Name: "TLS_RSA_WITH_NULL_SHA", OpenSSLName: "NULL-SHA", KeySize: 0},
	{ID: 0x0003, Name: "TLS_RSA_EXPORT_WITH_RC4_40_MD5", OpenSSLName: "EXP-RC4-MD5", KeySize: 40},
	{ID: 0x0004, Name: "TLS_RSA_WITH_RC4_128_MD5", OpenSSLName: "RC4-MD5", KeySize: 128},
	{ID: 0x0005, Name: "TLS_RSA_WITH_RC4_128_SHA", OpenSSLName: "RC4-SHA", KeySize: 128},
	{ID: 0x0006, Name: "TLS_RSA_EXPORT_WITH_RC2_CBC_40_MD5", OpenSSLName: "EXP-RC2-CBC-MD5", KeySize: 40},
	{ID: 0x0007, Name: "TLS_RSA_WITH_IDEA_CBC_SHA", OpenSSLName: "IDEA-CBC-SHA", KeySize: 128},
	{ID: 0x0008, Name: "TLS_RSA_EXPORT_WITH_DES40_CBC_SHA", OpenSSLName: "EXP-DES-CBC-SHA", KeySize: 40},
	{ID: 0x0009, Name: "TLS_RSA_WITH_DES_CBC_SHA", OpenSSLName: "DES-CBC-SHA", KeySize: 56},
	{ID: 0x000A, Name: "TLS_RSA_WITH_3DES_EDE_CBC_SHA", OpenSSLName: "DES-CBC3-SHA", KeySize: 168},
	{ID: 0x000B, Name: "TLS_DH_DSS_EXPORT_WITH_DES40_CBC_SHA", OpenSSLName: "EXP-DH-DSS-DES-CBC-SHA", KeySize: 40},
	{ID: 0x000C, Name: "TLS_DH_DSS_WITH_DES_CBC_SHA", OpenSSLName: "DH-DSS-DES-CBC-SHA", KeySize: 56},
	{ID: 0x000D, Name: "TLS_DH_DSS_WITH_3DES_EDE_CBC_SHA", OpenSSLName: "DH-DSS-DES-CBC3-SHA", KeySize: 168},
	{ID: 0x000E, Name: "TLS_DH_RSA_EXPORT_WITH_DES40_CBC_SHA", OpenSSLName: "EXP-DH-RSA-DES-CBC-SHA", KeySize: 40},
	{ID: 0x000F, Name: "TLS_DH_RSA_WITH_DES_CBC_SHA", OpenSSLName: "DH-RSA-DES-CBC-SHA", KeySize: 56},
	{ID: 0x0010, Name: "TLS_DH_RSA_WITH_3DES_EDE_CBC_SHA", OpenSSLName: "DH-RSA-DES-CBC3-SHA", KeySize: 168},
	{ID: 0x0011, Name: "TLS_DHE_DSS_EXPORT_WITH_DES40_CBC_SHA", OpenSSLName: "EXP-EDH-DSS-DES-CBC-SHA", KeySize: 40},
	{ID: 0x0012, Name: "TLS_DHE_DSS_WITH_DES_CBC_SHA", OpenSSLName: "EDH-DSS-DES-CBC-SHA", KeySize: 56},
	{ID: 0x0013, Name: "TLS_DHE_DSS_WITH_3DES_EDE_CBC_SHA", OpenSSLName: "EDH-DSS-DES-CBC3-SHA", KeySize: 168},
	{ID: 0x0014, Name: "TLS_DHE_RSA_EXPORT_WITH_DES40_CBC_SHA", OpenSSLName: "EXP-EDH-RSA-DES-CBC-SHA", KeySize: 40},
	{ID: 0x0015, Name: "TLS_DHE_RSA_WITH_DES_CBC_SHA", OpenSSLName: "EDH-RSA-DES-CBC-SHA", KeySize: 56},
	{ID: 0x0016, Name: "TLS_DHE_RSA_WITH_3DES_EDE_CBC_SHA", OpenSSLName: "EDH-RSA-DES-CBC3-SHA", KeySize: 168},
	{ID: 0x0017, Name: "TLS_DH_anon_EXPORT_WITH_RC4_40_MD5", OpenSSLName: "EXP-ADH-RC4-MD5", KeySize: 40},
	{ID: 0x0018, Name: "TLS_DH_anon_WITH_RC4_128_MD5", OpenSSLName: "ADH-RC4-MD5", KeySize: 128},
	{ID: 0x0019, Name: "TLS_DH_anon_EXPORT_WITH_DES40_CBC_SHA", OpenSSLName: "EXP-ADH-DES-CBC-SHA", KeySize: 40},
	{ID: 0x001A, Name: "TLS_DH_anon_WITH_DES_CBC_SHA", OpenSSLName: "ADH-DES-CBC-SHA", KeySize: 56},
	{ID: 0x001B, Name: "TLS_DH_anon_WITH_3DES_EDE_CBC_SHA", OpenSSLName: "ADH-DES-CBC3-SHA", KeySize: 168},
	{ID: 0x002F, Name: "TLS_RSA_WITH_AES_128_CBC_SHA", OpenSSLName: "AES128-SHA", KeySize: 128},
	{ID: 0x0030, Name: "TLS_DH_DSS_WITH_AES_128_CBC_SHA", OpenSSLName: "DH-DSS-AES128-SHA", KeySize: 128},
	{ID: 0x0031, Name: "TLS_DH_RSA_WITH_AES_128_CBC_SHA", OpenSSLName: "DH-RSA-AES128-SHA", KeySize: 128},
	{ID: 0x0032, Name: "TLS_DHE_DSS_WITH_AES_128_CBC_SHA", OpenSSLName: "DHE-DSS-AES128-SHA", KeySize: 128},
	{ID: 0x0033, Name: "TLS_DHE_RSA_WITH_AES_128_CBC_SHA", OpenSSLName: "DHE-RSA-AES128-SHA", KeySize: 128},
	{ID: 0x0034, Name: "TLS_DH_anon_WITH_AES_128_CBC_SHA", OpenSSLName: "ADH-AES128-SHA", KeySize: 128},
	{ID: 0x0035, Name: "TLS_RSA_WITH_AES_256_CBC_SHA", OpenSSLName: "AES256-SHA", KeySize: 256},
	{ID: 0x0036, Name: "TLS_DH_DSS_WITH_AES_256_CBC_SHA", OpenSSLName: "DH-DSS-AES256-SHA", KeySize: 256},
	{ID: 0x0037, Name: "TLS_DH_RSA_WITH_AES_256_CBC_SHA", OpenSSLName: "DH-RSA-AES256-SHA", KeySize: 256},
	{ID: 0x0038, Name: "TLS_DHE_DSS_WITH_AES_256_CBC_SHA", OpenSSLName: "DHE-DSS-AES256-SHA", KeySize: 256},
	{ID: 0x0039, Name: "TLS_DHE_RSA_WITH_AES_256_CBC_SHA", OpenSSLName: "DHE-RSA-AES256-SHA", KeySize: 256},
	{ID: 0x003A, Name: "TLS_DH_anon_WITH_AES_256_CBC_SHA", OpenSSLName: "ADH-AES256-SHA", KeySize: 256},
	{ID: 0x003B, Name: "TLS_RSA_WITH_NULL_SHA256", OpenSSLName: "NULL-SHA256", KeySize: 0, TLS12Only: true},
	{ID: 0x003C, Name: "TLS_RSA_WITH_AES_128_CBC_SHA256", OpenSSLName: "AES128-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x003D, Name: "TLS_RSA_WITH_AES_256_CBC_SHA256", OpenSSLName: "AES256-SHA256", KeySize: 256, TLS12Only: true},
	{ID: 0x003E, Name: "TLS_DH_DSS_WITH_AES_128_CBC_SHA256", OpenSSLName: "DH-DSS-AES128-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x003F, Name: "TLS_DH_RSA_WITH_AES_128_CBC_SHA256", OpenSSLName: "DH-RSA-AES128-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x0040, Name: "TLS_DHE_DSS_WITH_AES_128_CBC_SHA256", OpenSSLName: "DHE-DSS-AES128-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x0041, Name: "TLS_RSA_WITH_CAMELLIA_128_CBC_SHA", OpenSSLName: "CAMELLIA128-SHA", KeySize: 128},
	{ID: 0x0042, Name: "TLS_DH_DSS_WITH_CAMELLIA_128_CBC_SHA", OpenSSLName: "DH-DSS-CAMELLIA128-SHA", KeySize: 128},
	{ID: 0x0043, Name: "TLS_DH_RSA_WITH_CAMELLIA_128_CBC_SHA", OpenSSLName: "DH-RSA-CAMELLIA128-SHA", KeySize: 128},
	{ID: 0x0044, Name: "TLS_DHE_DSS_WITH_CAMELLIA_128_CBC_SHA", OpenSSLName: "DHE-DSS-CAMELLIA128-SHA", KeySize: 128},
	{ID: 0x0045, Name: "TLS_DHE_RSA_WITH_CAMELLIA_128_CBC_SHA", OpenSSLName: "DHE-RSA-CAMELLIA128-SHA", KeySize: 128},
	{ID: 0x0046, Name: "TLS_DH_anon_WITH_CAMELLIA_128_CBC_SHA", OpenSSLName: "ADH-CAMELLIA128-SHA", KeySize: 128},
	{ID: 0x0067, Name: "TLS_DHE_RSA_WITH_AES_128_CBC_SHA256", OpenSSLName: "DHE-RSA-AES128-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x0068, Name: "TLS_DH_DSS_WITH_AES_256_CBC_SHA256", OpenSSLName: "DH-DSS-AES256-SHA256", KeySize: 256, TLS12Only: true},
	{ID: 0x0069, Name: "TLS_DH_RSA_WITH_AES_256_CBC_SHA256", OpenSSLName: "DH-RSA-AES256-SHA256", KeySize: 256, TLS12Only: true},
	{ID: 0x006A, Name: "TLS_DHE_DSS_WITH_AES_256_CBC_SHA256", OpenSSLName: "DHE-DSS-AES256-SHA256", KeySize: 256, TLS12Only: true},
	{ID: 0x006B, Name: "TLS_DHE_RSA_WITH_AES_256_CBC_SHA256", OpenSSLName: "DHE-RSA-AES256-SHA256", KeySize: 256, TLS12Only: true},
	{ID: 0x006C, Name: "TLS_DH_anon_WITH_AES_128_CBC_SHA256", OpenSSLName: "ADH-AES128-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x006D, Name: "TLS_DH_anon_WITH_AES_256_CBC_SHA256", OpenSSLName: "ADH-AES256-SHA256", KeySize: 256, TLS12Only: true},
	{ID: 0x0084, Name: "TLS_RSA_WITH_CAMELLIA_256_CBC_SHA", OpenSSLName: "CAMELLIA256-SHA", KeySize: 256},
	{ID: 0x0085, Name: "TLS_DH_DSS_WITH_CAMELLIA_256_CBC_SHA", OpenSSLName: "DH-DSS-CAMELLIA256-SHA", KeySize: 256},
	{ID: 0x0086, Name: "TLS_DH_RSA_WITH_CAMELLIA_256_CBC_SHA", OpenSSLName: "DH-RSA-CAMELLIA256-SHA", KeySize: 256},
	{ID: 0x0087, Name: "TLS_DHE_DSS_WITH_CAMELLIA_256_CBC_SHA", OpenSSLName: "DHE-DSS-CAMELLIA256-SHA", KeySize: 256},
	{ID: 0x0088, Name: "TLS_DHE_RSA_WITH_CAMELLIA_256_CBC_SHA", OpenSSLName: "DHE-RSA-CAMELLIA256-SHA", KeySize: 256},
	{ID: 0x0089, Name: "TLS_DH_anon_WITH_CAMELLIA_256_CBC_SHA", OpenSSLName: "ADH-CAMELLIA256-SHA", KeySize: 256},
	{ID: 0x0096, Name: "TLS_RSA_WITH_SEED_CBC_SHA", OpenSSLName: "SEED-SHA", KeySize: 128},
	{ID: 0x0099, Name: "TLS_DHE_DSS_WITH_SEED_CBC_SHA", OpenSSLName: "DHE-DSS-SEED-SHA", KeySize: 128},
	{ID: 0x009A, Name: "TLS_DHE_RSA_WITH_SEED_CBC_SHA", OpenSSLName: "DHE-RSA-SEED-SHA", KeySize: 128},
	{ID: 0x009B, Name: "TLS_DH_anon_WITH_SEED_CBC_SHA", OpenSSLName: "ADH-SEED-SHA", KeySize: 128},
	{ID: 0x009C, Name: "TLS_RSA_WITH_AES_128_GCM_SHA256", OpenSSLName: "AES128-GCM-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x009D, Name: "TLS_RSA_WITH_AES_256_GCM_SHA384", OpenSSLName: "AES256-GCM-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0x009E, Name: "TLS_DHE_RSA_WITH_AES_128_GCM_SHA256", OpenSSLName: "DHE-RSA-AES128-GCM-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x009F, Name: "TLS_DHE_RSA_WITH_AES_256_GCM_SHA384", OpenSSLName: "DHE-RSA-AES256-GCM-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0x00A0, Name: "TLS_DH_RSA_WITH_AES_128_GCM_SHA256", OpenSSLName: "DH-RSA-AES128-GCM-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x00A1, Name: "TLS_DH_RSA_WITH_AES_256_GCM_SHA384", OpenSSLName: "DH-RSA-AES256-GCM-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0x00A2, Name: "TLS_DHE_DSS_WITH_AES_128_GCM_SHA256", OpenSSLName: "DHE-DSS-AES128-GCM-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x00A3, Name: "TLS_DHE_DSS_WITH_AES_256_GCM_SHA384", OpenSSLName: "DHE-DSS-AES256-GCM-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0x00A4, Name: "TLS_DH_DSS_WITH_AES_128_GCM_SHA256", OpenSSLName: "DH-DSS-AES128-GCM-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x00A5, Name: "TLS_DH_DSS_WITH_AES_256_GCM_SHA384", OpenSSLName: "DH-DSS-AES256-GCM-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0x00A6, Name: "TLS_DH_anon_WITH_AES_128_GCM_SHA256", OpenSSLName: "ADH-AES128-GCM-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x00A7, Name: "TLS_DH_anon_WITH_AES_256_GCM_SHA384", OpenSSLName: "ADH-AES256-GCM-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0x00BA, Name: "TLS_RSA_WITH_CAMELLIA_128_CBC_SHA256", OpenSSLName: "CAMELLIA128-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x00BE, Name: "TLS_DHE_RSA_WITH_CAMELLIA_128_CBC_SHA256", OpenSSLName: "DHE-RSA-CAMELLIA128-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0x00C0, Name: "TLS_RSA_WITH_CAMELLIA_256_CBC_SHA256", OpenSSLName: "CAMELLIA256-SHA256", KeySize: 256, TLS12Only: true},
	{ID: 0x00C4, Name: "TLS_DHE_RSA_WITH_CAMELLIA_256_CBC_SHA256", OpenSSLName: "DHE-RSA-CAMELLIA256-SHA256", KeySize: 256, TLS12Only: true},
	{ID: 0xC001, Name: "TLS_ECDH_ECDSA_WITH_NULL_SHA", OpenSSLName: "ECDH-ECDSA-NULL-SHA", KeySize: 0},
	{ID: 0xC002, Name: "TLS_ECDH_ECDSA_WITH_RC4_128_SHA", OpenSSLName: "ECDH-ECDSA-RC4-SHA", KeySize: 128},
	{ID: 0xC003, Name: "TLS_ECDH_ECDSA_WITH_3DES_EDE_CBC_SHA", OpenSSLName: "ECDH-ECDSA-DES-CBC3-SHA", KeySize: 168},
	{ID: 0xC004, Name: "TLS_ECDH_ECDSA_WITH_AES_128_CBC_SHA", OpenSSLName: "ECDH-ECDSA-AES128-SHA", KeySize: 128},
	{ID: 0xC005, Name: "TLS_ECDH_ECDSA_WITH_AES_256_CBC_SHA", OpenSSLName: "ECDH-ECDSA-AES256-SHA", KeySize: 256},
	{ID: 0xC006, Name: "TLS_ECDHE_ECDSA_WITH_NULL_SHA", OpenSSLName: "ECDHE-ECDSA-NULL-SHA", KeySize: 0},
	{ID: 0xC007, Name: "TLS_ECDHE_ECDSA_WITH_RC4_128_SHA", OpenSSLName: "ECDHE-ECDSA-RC4-SHA", KeySize: 128},
	{ID: 0xC008, Name: "TLS_ECDHE_ECDSA_WITH_3DES_EDE_CBC_SHA", OpenSSLName: "ECDHE-ECDSA-DES-CBC3-SHA", KeySize: 168},
	{ID: 0xC009, Name: "TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA", OpenSSLName: "ECDHE-ECDSA-AES128-SHA", KeySize: 128},
	{ID: 0xC00A, Name: "TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA", OpenSSLName: "ECDHE-ECDSA-AES256-SHA", KeySize: 256},
	{ID: 0xC00B, Name: "TLS_ECDH_RSA_WITH_NULL_SHA", OpenSSLName: "ECDH-RSA-NULL-SHA", KeySize: 0},
	{ID: 0xC00C, Name: "TLS_ECDH_RSA_WITH_RC4_128_SHA", OpenSSLName: "ECDH-RSA-RC4-SHA", KeySize: 128},
	{ID: 0xC00D, Name: "TLS_ECDH_RSA_WITH_3DES_EDE_CBC_SHA", OpenSSLName: "ECDH-RSA-DES-CBC3-SHA", KeySize: 168},
	{ID: 0xC00E, Name: "TLS_ECDH_RSA_WITH_AES_128_CBC_SHA", OpenSSLName: "ECDH-RSA-AES128-SHA", KeySize: 128},
	{ID: 0xC00F, Name: "TLS_ECDH_RSA_WITH_AES_256_CBC_SHA", OpenSSLName: "ECDH-RSA-AES256-SHA", KeySize: 256},
	{ID: 0xC010, Name: "TLS_ECDHE_RSA_WITH_NULL_SHA", OpenSSLName: "ECDHE-RSA-NULL-SHA", KeySize: 0},
	{ID: 0xC011, Name: "TLS_ECDHE_RSA_WITH_RC4_128_SHA", OpenSSLName: "ECDHE-RSA-RC4-SHA", KeySize: 128},
	{ID: 0xC012, Name: "TLS_ECDHE_RSA_WITH_3DES_EDE_CBC_SHA", OpenSSLName: "ECDHE-RSA-DES-CBC3-SHA", KeySize: 168},
	{ID: 0xC013, Name: "TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA", OpenSSLName: "ECDHE-RSA-AES128-SHA", KeySize: 128},
	{ID: 0xC014, Name: "TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA", OpenSSLName: "ECDHE-RSA-AES256-SHA", KeySize: 256},
	{ID: 0xC015, Name: "TLS_ECDH_anon_WITH_NULL_SHA", OpenSSLName: "AECDH-NULL-SHA", KeySize: 0},
	{ID: 0xC016, Name: "TLS_ECDH_anon_WITH_RC4_128_SHA", OpenSSLName: "AECDH-RC4-SHA", KeySize: 128},
	{ID: 0xC017, Name: "TLS_ECDH_anon_WITH_3DES_EDE_CBC_SHA", OpenSSLName: "AECDH-DES-CBC3-SHA", KeySize: 168},
	{ID: 0xC018, Name: "TLS_ECDH_anon_WITH_AES_128_CBC_SHA", OpenSSLName: "AECDH-AES128-SHA", KeySize: 128},
	{ID: 0xC019, Name: "TLS_ECDH_anon_WITH_AES_256_CBC_SHA", OpenSSLName: "AECDH-AES256-SHA", KeySize: 256},
	{ID: 0xC023, Name: "TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA256", OpenSSLName: "ECDHE-ECDSA-AES128-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0xC024, Name: "TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA384", OpenSSLName: "ECDHE-ECDSA-AES256-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0xC025, Name: "TLS_ECDH_ECDSA_WITH_AES_128_CBC_SHA256", OpenSSLName: "ECDH-ECDSA-AES128-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0xC026, Name: "TLS_ECDH_ECDSA_WITH_AES_256_CBC_SHA384", OpenSSLName: "ECDH-ECDSA-AES256-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0xC027, Name: "TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA256", OpenSSLName: "ECDHE-RSA-AES128-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0xC028, Name: "TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA384", OpenSSLName: "ECDHE-RSA-AES256-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0xC029, Name: "TLS_ECDH_RSA_WITH_AES_128_CBC_SHA256", OpenSSLName: "ECDH-RSA-AES128-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0xC02A, Name: "TLS_ECDH_RSA_WITH_AES_256_CBC_SHA384", OpenSSLName: "ECDH-RSA-AES256-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0xC02B, Name: "TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256", OpenSSLName: "ECDHE-ECDSA-AES128-GCM-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0xC02C, Name: "TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384", OpenSSLName: "ECDHE-ECDSA-AES256-GCM-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0xC02D, Name: "TLS_ECDH_ECDSA_WITH_AES_128_GCM_SHA256", OpenSSLName: "ECDH-ECDSA-AES128-GCM-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0xC02E, Name: "TLS_ECDH_ECDSA_WITH_AES_256_GCM_SHA384", OpenSSLName: "ECDH-ECDSA-AES256-GCM-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0xC02F, Name: "TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256", OpenSSLName: "ECDHE-RSA-AES128-GCM-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0xC030, Name: "TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384", OpenSSLName: "ECDHE-RSA-AES256-GCM-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0xC031, Name: "TLS_ECDH_RSA_WITH_AES_128_GCM_SHA256", OpenSSLName: "ECDH-RSA-AES128-GCM-SHA256", KeySize: 128, TLS12Only: true},
	{ID: 0xC032, Name: "TLS_ECDH_RSA_WITH_AES_256_GCM_SHA384", OpenSSLName: "ECDH-RSA-AES256-GCM-SHA384", KeySize: 256, TLS12Only: true},
	{ID: 0xC09C, Name: "TLS_RSA_WITH_AES_128_CCM", OpenSSLName: "AES128-CCM", KeySize: 128, TLS12Only: true},
	{ID: 0xC09D, Name: "TLS_RSA_WITH_AES_256_CCM", OpenSSLName: "AES256-CCM", KeySize: 256, TLS12Only: true},
	{ID: 0xC09E, Name: "TLS_DHE_RSA_WITH_AES_128_CCM", OpenSSLName: "DHE-RSA-AES128-CCM", KeySize: 128, TLS12Only: true},
	{ID: 0xC09F, Name: "TLS_DHE_RSA_WITH_AES_256_CCM", OpenSSLName: "DHE-RSA-AES256-CCM", KeySize: 256, TLS12Only: true},
	{ID: 0xC0A0, Name: "TLS_RSA_WITH_AES_128_CCM_8", OpenSSLName: "AES128-CCM8", KeySize: 128, TLS12Only: true},
	{ID: 0xC0A1, Name: "TLS_RSA_WITH_AES_256_CCM_8", OpenSSLName: "AES256-CCM8", KeySize: 256, TLS12Only: true},
	{ID: 0xC0AC, Name: "TLS_ECDHE_ECDSA_WITH_AES_128_CCM", OpenSSLName: "ECDHE-ECDSA-AES128-CCM", KeySize: 128, TLS12Only: true},
	{ID: 0xC0AD, Name: "TLS_ECDHE_ECDSA_WITH_AES_256_CCM", OpenSSLName: "ECDHE-ECDSA-AES256-CCM", KeySize: 256, TLS12Only: true},
	{ID: 0xC0AE, Name: "TLS_ECDHE_ECDSA_WITH_AES_128_CCM_8", OpenSSLName: "ECDHE-ECDSA-AES128-CCM8", KeySize: 128, TLS12Only: true},
	{ID: 0xC0AF, Name: "TLS_ECDHE_ECDSA_WITH_AES_256_CCM_8", OpenSSLName: "ECDHE-ECDSA-AES256-CCM8", KeySize: 256, TLS12Only: true},
	{ID: 0xCCA8, Name: "TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256", OpenSSLName: "ECDHE-RSA-CHACHA20-POLY1305", KeySize: 256, TLS12Only: true},
	{ID: 0xCCA9, Name: "TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256", OpenSSLName: "ECDHE-ECDSA-CHACHA20-POLY1305", KeySize: 256, TLS12Only: true},
	{ID: 0xCCAA, Name: "TLS_DHE_RSA_WITH_CHACHA20_POLY1305_SHA256", OpenSSLName: "DHE-RSA-CHACHA20-POLY1305", KeySize: 256, TLS12Only: true},
}

var tls13CipherSuites = []CipherSuiteInfo{
	{ID: 0x1301, Name: "TLS_AES_128_GCM_SHA256", OpenSSLName: "TLS_AES_128_GCM_SHA256", KeySize: 128},
	{ID: 0x1302, Name: "TLS_AES_256_GCM_SHA384", OpenSSLName: "TLS_AES_256_GCM_SHA384", KeySize: 256},
	{ID: 0x1303, Name: "TLS_CHACHA20_POLY1305_SHA256", OpenSSLName: "TLS_CHACHA20_POLY1305_SHA256", KeySize: 256},
	{ID: 0x1304, Name: "TLS_AES_128_CCM_SHA256", OpenSSLName: "TLS_AES_128_CCM_SHA256", KeySize: 128},
	{ID: 0x1305, Name: "TLS_AES_128_CCM_8_SHA256", OpenSSLName: "TLS_AES_128_CCM_8_SHA256", KeySize: 128},
}

var cipherSuitesByID = func() map[uint16]CipherSuiteInfo {
	m := make(map[uint16]CipherSuiteInfo, len(legacyCipherSuites)+len(tls13CipherSuites))
	for _, c := range legacyCipherSuites {
		m[c.ID] = c
	}
	for _, c := range tls13CipherSuites {
		m[c.ID] = c
	}
	return m
}()

// LookupCipherSuite returns the table entry for id. Unknown ids get a
// placeholder name so an unexpected server choice is still recorded.
func LookupCipherSuite(id uint16) CipherSuiteInfo {
	if c, ok := cipherSuitesByID[id]; ok {
		return c
	}
	name := fmt.Sprintf("UNKNOWN_CIPHER_0x%04X", id)
	return CipherSuiteInfo{ID: id, Name: name, OpenSSLName: name}
}

// candidateSuites returns the ids offered when enumerating a protocol
// version.
func candidateSuites(version uint16) []uint16 {
	var ids []uint16
	if version == versionTLS13 {
		for _, c := range tls13CipherSuites {
			ids = append(ids, c.ID)
		}
		return ids
	}
	for _, c := range legacyCipherSuites {
		if c.TLS12Only && version < versionTLS12 {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids
}
