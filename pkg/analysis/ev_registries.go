package analysis

// EV policy OID registries, one per browser root program.

// Mozilla: security/certverifier/ExtendedValidation.cpp.
var mozillaEV = newOIDSet(
	"1.2.156.112559.1.1.6.1",
	"1.2.392.200091.100.721.1",
	"1.2.616.1.113527.2.5.1.1",
	"1.3.159.1.17.1",
	"1.3.171.1.1.10.5.2",
	"1.3.6.1.4.1.13177.10.1.3.10",
	"1.3.6.1.4.1.14370.1.6",
	"1.3.6.1.4.1.14777.6.1.1",
	"1.3.6.1.4.1.14777.6.1.2",
	"1.3.6.1.4.1.17326.10.14.2.1.2",
	"1.3.6.1.4.1.17326.10.8.12.1.2",
	"1.3.6.1.4.1.22234.2.14.3.11",
	"1.3.6.1.4.1.22234.2.5.2.3.1",
	"1.3.6.1.4.1.22234.3.5.3.1",
	"1.3.6.1.4.1.22234.3.5.3.2",
	"1.3.6.1.4.1.34697.2.1",
	"1.3.6.1.4.1.34697.2.2",
	"1.3.6.1.4.1.34697.2.3",
	"1.3.6.1.4.1.34697.2.4",
	"1.3.6.1.4.1.40869.1.1.22.3",
	"1.3.6.1.4.1.4146.1.1",
	"1.3.6.1.4.1.4788.2.202.1",
	"1.3.6.1.4.1.6334.1.100.1",
	"1.3.6.1.4.1.6449.1.2.1.5.1",
	"1.3.6.1.4.1.782.1.2.1.8.1",
	"1.3.6.1.4.1.7879.13.24.1",
	"1.3.6.1.4.1.8024.0.2.100.1.2",
	"2.16.156.112554.3",
	"2.16.528.1.1003.1.2.7",
	"2.16.578.1.26.1.3.3",
	"2.16.756.1.89.1.2.1.1",
	"2.16.756.5.14.7.4.8",
	"2.16.792.3.0.4.1.1.4",
	"2.16.840.1.113733.1.7.23.6",
	"2.16.840.1.113733.1.7.48.1",
	"2.16.840.1.114028.10.1.2",
	"2.16.840.1.114404.1.1.2.4.1",
	"2.16.840.1.114412.2.1",
	"2.16.840.1.114413.1.7.23.3",
	"2.16.840.1.114414.1.7.23.3",
)

// Google: net/cert/ev_root_ca_metadata.cc.
var googleEV = newOIDSet(
	"1.2.392.200091.100.721.1",
	"1.2.616.1.113527.2.5.1.1",
	"1.3.159.1.17.1",
	"1.3.171.1.1.10.5.2",
	"1.3.6.1.4.1.13177.10.1.3.10",
	"1.3.6.1.4.1.14370.1.6",
	"1.3.6.1.4.1.14777.6.1.1",
	"1.3.6.1.4.1.14777.6.1.2",
	"1.3.6.1.4.1.17326.10.14.2.1.2",
	"1.3.6.1.4.1.17326.10.14.2.2.2",
	"1.3.6.1.4.1.17326.10.8.12.1.2",
	"1.3.6.1.4.1.17326.10.8.12.2.2",
	"1.3.6.1.4.1.22234.2.5.2.3.1",
	"1.3.6.1.4.1.23223.1.1.1",
	"1.3.6.1.4.1.29836.1.10",
	"1.3.6.1.4.1.34697.2.1",
	"1.3.6.1.4.1.34697.2.2",
	"1.3.6.1.4.1.34697.2.3",
	"1.3.6.1.4.1.34697.2.4",
	"1.3.6.1.4.1.40869.1.1.22.3",
	"1.3.6.1.4.1.4146.1.1",
	"1.3.6.1.4.1.4788.2.202.1",
	"1.3.6.1.4.1.6334.1.100.1",
	"1.3.6.1.4.1.6449.1.2.1.5.1",
	"1.3.6.1.4.1.782.1.2.1.8.1",
	"1.3.6.1.4.1.7879.13.24.1",
	"1.3.6.1.4.1.8024.0.2.100.1.2",
	"2.16.156.112554.3",
	"2.16.528.1.1003.1.2.7",
	"2.16.578.1.26.1.3.3",
	"2.16.756.1.83.21.0",
	"2.16.756.1.89.1.2.1.1",
	"2.16.756.5.14.7.4.8",
	"2.16.792.3.0.4.1.1.4",
	"2.16.840.1.113733.1.7.23.6",
	"2.16.840.1.113733.1.7.48.1",
	"2.16.840.1.114028.10.1.2",
	"2.16.840.1.114171.500.9",
	"2.16.840.1.114404.1.1.2.4.1",
	"2.16.840.1.114412.2.1",
	"2.16.840.1.114413.1.7.23.3",
	"2.16.840.1.114414.1.7.23.3",
	"2.16.840.1.114414.1.7.24.3",
)

// Microsoft: tl-create filtered to SERVER_AUTH.
var microsoftEV = newOIDSet(
	"0.4.0.2042.1.4",
	"0.4.0.2042.1.5",
	"1.2.156.112559.1.1.6.1",
	"1.2.156.112559.1.1.7.1",
	"1.2.156.112570.1.1.3",
	"1.2.392.200091.100.721.1",
	"1.2.40.0.17.1.22",
	"1.2.616.1.113527.2.5.1.1",
	"1.2.616.1.113527.2.5.1.7",
	"1.3.159.1.17.1",
	"1.3.171.1.1.1.10.5",
	"1.3.171.1.1.10.5.2",
	"1.3.6.1.4.1.13177.10.1.3.10",
	"1.3.6.1.4.1.14370.1.6",
	"1.3.6.1.4.1.14777.6.1.1",
	"1.3.6.1.4.1.14777.6.1.2",
	"1.3.6.1.4.1.15096.1.3.1.51.2",
	"1.3.6.1.4.1.15096.1.3.1.51.4",
	"1.3.6.1.4.1.17326.10.14.2.1.2",
	"1.3.6.1.4.1.17326.10.16.3.6.1.3.2.1",
	"1.3.6.1.4.1.17326.10.16.3.6.1.3.2.2",
	"1.3.6.1.4.1.17326.10.8.12.1.1",
	"1.3.6.1.4.1.17326.10.8.12.1.2",
	"1.3.6.1.4.1.18332.55.1.1.2.12",
	"1.3.6.1.4.1.18332.55.1.1.2.22",
	"1.3.6.1.4.1.22234.2.14.3.11",
	"1.3.6.1.4.1.22234.2.5.2.3.1",
	"1.3.6.1.4.1.22234.3.5.3.1",
	"1.3.6.1.4.1.22234.3.5.3.2",
	"1.3.6.1.4.1.23223.1.1.1",
	"1.3.6.1.4.1.29836.1.10",
	"1.3.6.1.4.1.311.94.1.1",
	"1.3.6.1.4.1.34697.2.1",
	"1.3.6.1.4.1.34697.2.2",
	"1.3.6.1.4.1.34697.2.3",
	"1.3.6.1.4.1.34697.2.4",
	"1.3.6.1.4.1.36305.2",
	"1.3.6.1.4.1.38064.1.1.1.0",
	"1.3.6.1.4.1.40869.1.1.22.3",
	"1.3.6.1.4.1.4146.1.1",
	"1.3.6.1.4.1.4146.1.2",
	"1.3.6.1.4.1.4788.2.202.1",
	"1.3.6.1.4.1.6334.1.100.1",
	"1.3.6.1.4.1.6449.1.2.1.5.1",
	"1.3.6.1.4.1.782.1.2.1.8.1",
	"1.3.6.1.4.1.7879.13.24.1",
	"1.3.6.1.4.1.8024.0.2.100.1.2",
	"2.16.156.112554.3",
	"2.16.528.1.1003.1.2.7",
	"2.16.578.1.26.1.3.3",
	"2.16.756.1.17.3.22.32",
	"2.16.756.1.17.3.22.34",
	"2.16.756.1.83.21.0",
	"2.16.756.1.89.1.2.1.1",
	"2.16.792.3.0.4.1.1.4",
	"2.16.840.1.113733.1.7.23.6",
	"2.16.840.1.113733.1.7.48.1",
	"2.16.840.1.113839.0.6.9",
	"2.16.840.1.114028.10.1.2",
	"2.16.840.1.114404.1.1.2.4.1",
	"2.16.840.1.114412.2.1",
	"2.16.840.1.114413.1.7.23.3",
	"2.16.840.1.114414.1.7.23.3",
	"2.16.840.1.114414.1.7.24.2",
	"2.16.840.1.114414.1.7.24.3",
)

// Apple: tl-create filtered to SERVER_AUTH.
var appleEV = newOIDSet(
	"1.2.250.1.177.1.18.2.2",
	"1.2.392.200091.100.721.1",
	"1.2.616.1.113527.2.5.1.1",
	"1.3.159.1.17.1",
	"1.3.6.1.4.1.13177.10.1.3.10",
	"1.3.6.1.4.1.14370.1.6",
	"1.3.6.1.4.1.14777.6.1.1",
	"1.3.6.1.4.1.14777.6.1.2",
	"1.3.6.1.4.1.17326.10.14.2.1.2",
	"1.3.6.1.4.1.17326.10.8.12.1.2",
	"1.3.6.1.4.1.18332.55.1.1.2.22",
	"1.3.6.1.4.1.22234.2.14.3.11",
	"1.3.6.1.4.1.22234.2.5.2.3.1",
	"1.3.6.1.4.1.22234.3.5.3.1",
	"1.3.6.1.4.1.23223.1.1.1",
	"1.3.6.1.4.1.23223.2",
	"1.3.6.1.4.1.34697.2.1",
	"1.3.6.1.4.1.34697.2.2",
	"1.3.6.1.4.1.34697.2.3",
	"1.3.6.1.4.1.34697.2.4",
	"1.3.6.1.4.1.40869.1.1.22.3",
	"1.3.6.1.4.1.4146.1.1",
	"1.3.6.1.4.1.4788.2.202.1",
	"1.3.6.1.4.1.6334.1.100.1",
	"1.3.6.1.4.1.6449.1.2.1.5.1",
	"1.3.6.1.4.1.782.1.2.1.8.1",
	"1.3.6.1.4.1.7879.13.24.1",
	"1.3.6.1.4.1.8024.0.2.100.1.2",
	"2.16.156.112554.3",
	"2.16.528.1.1003.1.2.7",
	"2.16.578.1.26.1.3.3",
	"2.16.756.1.83.21.0",
	"2.16.756.1.89.1.2.1.1",
	"2.16.756.5.14.7.4.8",
	"2.16.792.3.0.4.1.1.4",
	"2.16.840.1.113733.1.7.23.6",
	"2.16.840.1.113733.1.7.48.1",
	"2.16.840.1.114028.10.1.2",
	"2.16.840.1.114404.1.1.2.4.1",
	"2.16.840.1.114412.1.3.0.2",
	"2.16.840.1.114412.2.1",
	"2.16.840.1.114413.1.7.23.3",
	"2.16.840.1.114414.1.7.23.3",
	"2.16.840.1.114414.1.7.24.3",
)
