package clinical

import "testing"

func TestANCAlerts(t *testing.T) {
	alerts := ANCAlerts(ip(140), ip(80), nil, "")
	if len(alerts) != 1 || alerts[0] != AlertANCHighBP {
		t.Errorf("systolic 140: expected high BP alert, got %v", alerts)
	}
	alerts = ANCAlerts(ip(120), ip(90), nil, "")
	if len(alerts) != 1 || alerts[0] != AlertANCHighBP {
		t.Errorf("diastolic 90: expected high BP alert, got %v", alerts)
	}
	alerts = ANCAlerts(ip(110), ip(70), fp(10.9), "")
	if len(alerts) != 1 || alerts[0] != AlertANCAnemia {
		t.Errorf("Hb 10.9: expected anemia alert, got %v", alerts)
	}
	// A zero hemoglobin reading means not measured, never anemia.
	if alerts := ANCAlerts(ip(110), ip(70), fp(0), ""); len(alerts) != 0 {
		t.Errorf("Hb 0: expected no alerts, got %v", alerts)
	}
	alerts = ANCAlerts(nil, nil, nil, "severe headache, blurred vision")
	if len(alerts) != 1 || alerts[0] != AlertDangerSigns {
		t.Errorf("danger signs: expected danger alert, got %v", alerts)
	}
	alerts = ANCAlerts(ip(150), ip(95), fp(9.8), "bleeding")
	if len(alerts) != 3 {
		t.Errorf("expected all three alerts, got %v", alerts)
	}
	if alerts := ANCAlerts(ip(118), ip(76), fp(12.4), ""); len(alerts) != 0 {
		t.Errorf("normal visit: expected no alerts, got %v", alerts)
	}
}

func TestPNCAlerts(t *testing.T) {
	alerts := PNCAlerts(ip(140), nil, "")
	if len(alerts) != 1 || alerts[0] != AlertPNCHighBP {
		t.Errorf("systolic 140: expected high BP alert, got %v", alerts)
	}
	alerts = PNCAlerts(ip(120), fp(9.9), "")
	if len(alerts) != 1 || alerts[0] != AlertPNCSevereAnemia {
		t.Errorf("Hb 9.9: expected severe anemia alert, got %v", alerts)
	}
	if alerts := PNCAlerts(ip(120), fp(10.0), ""); len(alerts) != 0 {
		t.Errorf("Hb 10.0: expected no alerts, got %v", alerts)
	}
	alerts = PNCAlerts(nil, nil, "heavy bleeding")
	if len(alerts) != 1 || alerts[0] != AlertDangerSigns {
		t.Errorf("danger signs: expected danger alert, got %v", alerts)
	}
}

func TestHighRiskANC(t *testing.T) {
	if !HighRiskANC(ip(140), nil, "") {
		t.Error("systolic 140 should be high risk")
	}
	if !HighRiskANC(nil, fp(10.5), "") {
		t.Error("Hb 10.5 should be high risk")
	}
	if !HighRiskANC(nil, nil, "swelling") {
		t.Error("danger signs should be high risk")
	}
	if HighRiskANC(ip(118), fp(12.0), "") {
		t.Error("normal readings should not be high risk")
	}
	if HighRiskANC(nil, fp(0), "") {
		t.Error("unmeasured hemoglobin should not be high risk")
	}
}
