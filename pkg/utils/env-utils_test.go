package utils

import "testing"

func TestGenerateEnvVarName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple alphanumeric name",
			input:    "myservice",
			expected: "MYSERVICE",
		},
		{
			name:     "name with hyphens",
			input:    "my-analytics-service",
			expected: "MY_ANALYTICS_SERVICE",
		},
		{
			name:     "name with spaces",
			input:    "my service name",
			expected: "MY_SERVICE_NAME",
		},
		{
			name:     "name with mixed characters",
			input:    "my-service_name.v2",
			expected: "MY_SERVICE_NAME_V2",
		},
		{
			name:     "name with leading/trailing special chars",
			input:    "-my_service-",
			expected: "MY_SERVICE",
		},
		{
			name:     "name already uppercase",
			input:    "MYSERVICE",
			expected: "MYSERVICE",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only special characters",
			input:    "---",
			expected: "",
		},
		{
			name:     "name with numbers",
			input:    "service-v1.2.3",
			expected: "SERVICE_V1_2_3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateEnvVarName(tt.input)
			if result != tt.expected {
				t.Errorf("GenerateEnvVarName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGenerateFieldDeviceAPIKeyEnvVarName(t *testing.T) {
	tests := []struct {
		name        string
		deviceGroup string
		expected    string
	}{
		{
			name:        "simple group name",
			deviceGroup: "capi",
			expected:    "FIELD_DEVICE_API_KEY_FOR_CAPI",
		},
		{
			name:        "group name with hyphens",
			deviceGroup: "cati-call-center",
			expected:    "FIELD_DEVICE_API_KEY_FOR_CATI_CALL_CENTER",
		},
		{
			name:        "group name with dots and version",
			deviceGroup: "capi.tablets.v2",
			expected:    "FIELD_DEVICE_API_KEY_FOR_CAPI_TABLETS_V2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateFieldDeviceAPIKeyEnvVarName(tt.deviceGroup)
			if result != tt.expected {
				t.Errorf("GenerateFieldDeviceAPIKeyEnvVarName(%q) = %q, want %q", tt.deviceGroup, result, tt.expected)
			}
		})
	}
}
